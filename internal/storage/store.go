package storage

import (
	"context"
	"errors"
	"strconv"
)

// Kind names a record family. Ids are allocated per kind.
type Kind string

const (
	KindCatalog     Kind = "catalog"
	KindBoard       Kind = "board"
	KindCardList    Kind = "list"
	KindCard        Kind = "card"
	KindTag         Kind = "tag"
	KindSubtask     Kind = "subtask"
	KindColorPreset Kind = "preset"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("record not found")

// Store is the durable sink behind the domain. Records are opaque JSON
// documents keyed by kind and id.
type Store interface {
	NextID(ctx context.Context, kind Kind) (int64, error)
	Get(ctx context.Context, kind Kind, id int64) ([]byte, error)
	Put(ctx context.Context, kind Kind, id int64, data []byte) error
	Delete(ctx context.Context, kind Kind, id int64) error
	Close() error
}

func recordKey(prefix string, kind Kind, id int64) string {
	return prefix + ":" + string(kind) + ":" + strconv.FormatInt(id, 10)
}
