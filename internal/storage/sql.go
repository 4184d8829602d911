package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	recordsTable   = "records"
	sequencesTable = "sequences"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		kind TEXT NOT NULL,
		id BIGINT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (kind, id)
	)`,
	`CREATE TABLE IF NOT EXISTS sequences (
		kind TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,
}

// SQL keeps records in a two-table relational schema. It works with the
// pure-Go SQLite driver and with PostgreSQL.
type SQL struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// OpenSQL connects to the database. driver is "sqlite" or "postgres".
func OpenSQL(driver, dsn string) (*SQL, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// A single connection keeps sqlite writers from tripping over each other.
		db.SetMaxOpenConns(1)
	}
	return NewSQL(db), nil
}

// NewSQL wraps an existing connection pool.
func NewSQL(db *sqlx.DB) *SQL {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	if db.DriverName() == "postgres" {
		format = squirrel.Dollar
	}
	return &SQL{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// CreateSchema creates the records and sequences tables if missing.
func (s *SQL) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *SQL) NextID(ctx context.Context, kind Kind) (int64, error) {
	query, args, err := s.sb.Insert(sequencesTable).
		Columns("kind", "value").
		Values(string(kind), 1).
		Suffix("ON CONFLICT (kind) DO UPDATE SET value = sequences.value + 1 RETURNING value").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", kind, err)
	}
	return id, nil
}

func (s *SQL) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	query, args, err := s.sb.Select("data").
		From(recordsTable).
		Where(squirrel.Eq{"kind": string(kind)}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var data string
	if err := s.db.GetContext(ctx, &data, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(data), nil
}

func (s *SQL) Put(ctx context.Context, kind Kind, id int64, data []byte) error {
	query, args, err := s.sb.Insert(recordsTable).
		Columns("kind", "id", "data").
		Values(string(kind), id, string(data)).
		Suffix("ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQL) Delete(ctx context.Context, kind Kind, id int64) error {
	query, args, err := s.sb.Delete(recordsTable).
		Where(squirrel.Eq{"kind": string(kind)}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQL) Close() error {
	return s.db.Close()
}
