package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

const (
	sequencePartition = "seq"
	edmInt64          = "Edm.Int64"
	maxSequenceTries  = 16
)

// Tables keeps records in an Azure table: the kind is the partition key and
// the zero-padded id is the row key.
type Tables struct {
	table *aztables.Client
}

// tableKeys mirrors the key columns of a table entity.
type tableKeys struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

type recordEntity struct {
	tableKeys
	Data string `json:"Data"`
}

type sequenceEntity struct {
	tableKeys
	Value     int64  `json:"Value,string"`
	ValueType string `json:"Value@odata.type"`
}

// NewTablesServiceClient builds a service client with the retry policy used
// for every table operation.
func NewTablesServiceClient(connStr string) (*aztables.ServiceClient, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	return aztables.NewServiceClientFromConnectionString(connStr, &opts)
}

// NewTables creates a table-backed store for the given table name.
func NewTables(connStr, tableName string) (*Tables, error) {
	svc, err := NewTablesServiceClient(connStr)
	if err != nil {
		return nil, err
	}
	return &Tables{table: svc.NewClient(tableName)}, nil
}

// CreateTable creates the backing table, tolerating an existing one.
func (t *Tables) CreateTable(ctx context.Context) error {
	_, err := t.table.CreateTable(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists) {
			return nil
		}
		return err
	}
	return nil
}

func rowKey(id int64) string {
	return fmt.Sprintf("%019d", id)
}

func isStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}

// NextID increments the per-kind sequence row with optimistic concurrency.
func (t *Tables) NextID(ctx context.Context, kind Kind) (int64, error) {
	for i := 0; i < maxSequenceTries; i++ {
		resp, err := t.table.GetEntity(ctx, sequencePartition, string(kind), nil)
		if err != nil {
			if !isStatus(err, http.StatusNotFound) {
				return 0, err
			}
			ent := sequenceEntity{
				tableKeys: tableKeys{PartitionKey: sequencePartition, RowKey: string(kind)},
				Value:     1,
				ValueType: edmInt64,
			}
			payload, err := json.Marshal(ent)
			if err != nil {
				return 0, err
			}
			if _, err := t.table.AddEntity(ctx, payload, nil); err != nil {
				if isStatus(err, http.StatusConflict) {
					continue
				}
				return 0, err
			}
			return 1, nil
		}
		var ent sequenceEntity
		if err := json.Unmarshal(resp.Value, &ent); err != nil {
			return 0, err
		}
		ent.Value++
		ent.ValueType = edmInt64
		payload, err := json.Marshal(ent)
		if err != nil {
			return 0, err
		}
		etag := resp.ETag
		_, err = t.table.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &etag, UpdateMode: aztables.UpdateModeReplace})
		if err != nil {
			if isStatus(err, http.StatusPreconditionFailed) {
				continue
			}
			return 0, err
		}
		return ent.Value, nil
	}
	return 0, fmt.Errorf("allocate %s id: too much contention", kind)
}

func (t *Tables) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	resp, err := t.table.GetEntity(ctx, string(kind), rowKey(id), nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var ent recordEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		return nil, err
	}
	return []byte(ent.Data), nil
}

func (t *Tables) Put(ctx context.Context, kind Kind, id int64, data []byte) error {
	ent := recordEntity{
		tableKeys: tableKeys{PartitionKey: string(kind), RowKey: rowKey(id)},
		Data:      string(data),
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = t.table.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

func (t *Tables) Delete(ctx context.Context, kind Kind, id int64) error {
	_, err := t.table.DeleteEntity(ctx, string(kind), rowKey(id), nil)
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return err
	}
	return nil
}

func (t *Tables) Close() error { return nil }
