package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQL(t *testing.T, driver string) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQL(sqlx.NewDb(db, driver)), mock
}

func TestSQLNextID(t *testing.T) {
	store, mock := newMockSQL(t, "sqlite")
	mock.ExpectQuery(`INSERT INTO sequences \(kind,value\) VALUES \(\?,\?\) ON CONFLICT \(kind\)`).
		WithArgs("board", 1).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(4)))

	id, err := store.NextID(context.Background(), KindBoard)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGet(t *testing.T) {
	store, mock := newMockSQL(t, "sqlite")
	mock.ExpectQuery(`SELECT data FROM records WHERE kind = \? AND id = \?`).
		WithArgs("card", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"title":"c"}`))

	data, err := store.Get(context.Background(), KindCard, 2)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"c"}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGetMissingIsNotFound(t *testing.T) {
	store, mock := newMockSQL(t, "sqlite")
	mock.ExpectQuery(`SELECT data FROM records`).
		WithArgs("card", int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), KindCard, 2)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestSQLPutUsesDollarPlaceholdersOnPostgres(t *testing.T) {
	store, mock := newMockSQL(t, "postgres")
	mock.ExpectExec(`INSERT INTO records \(kind,id,data\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(kind, id\) DO UPDATE SET data = excluded.data`).
		WithArgs("tag", int64(5), "{}").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), KindTag, 5, []byte("{}")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDelete(t *testing.T) {
	store, mock := newMockSQL(t, "sqlite")
	mock.ExpectExec(`DELETE FROM records WHERE kind = \? AND id = \?`).
		WithArgs("subtask", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), KindSubtask, 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreateSchema(t *testing.T) {
	store, mock := newMockSQL(t, "sqlite")
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS records`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS sequences`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.CreateSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenSQLRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQL("mysql", "dsn")
	assert.Error(t, err)
}
