package commands

import (
	"context"
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/spf13/cobra"

	"talio/internal/config"
	"talio/internal/journal"
	"talio/internal/storage"
)

var initStorageCmd = &cobra.Command{
	Use:   "init-storage",
	Short: "Create the SQL schema, Azure table and journal queue",
	Long: `Prepares the configured backend before the first serve: the SQL schema
for TALIO_STORAGE=sql, the table for TALIO_STORAGE=tables, and the journal
queue when TALIO_JOURNAL_QUEUE is set. Existing resources are left alone.`,
	RunE: runInitStorage,
}

func init() {
	rootCmd.AddCommand(initStorageCmd)
}

func runInitStorage(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger.Info("storage init starting")

	switch cfg.Storage {
	case config.StorageSQL:
		s, err := storage.OpenSQL(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.CreateSchema(ctx); err != nil {
			return err
		}
		logger.WithField("driver", cfg.SQLDriver).Info("sql schema ready")
	case config.StorageTables:
		t, err := storage.NewTables(cfg.TablesConn, cfg.TableName)
		if err != nil {
			return err
		}
		if err := t.CreateTable(ctx); err != nil {
			return err
		}
		logger.WithField("table", cfg.TableName).Info("table ready")
	default:
		logger.WithField("storage", cfg.Storage).Info("nothing to create for this backend")
	}

	if cfg.JournalQueue != "" {
		if err := createQueue(ctx, cfg.TablesConn, cfg.JournalQueue); err != nil {
			return err
		}
		logger.WithField("queue", cfg.JournalQueue).Info("journal queue ready")
	}

	logger.Info("storage init complete")
	return nil
}

func createQueue(ctx context.Context, connStr, name string) error {
	q, err := journal.NewQueueClient(connStr, name)
	if err != nil {
		return err
	}
	if _, err := q.Create(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == "QueueAlreadyExists") {
			return err
		}
	}
	return nil
}
