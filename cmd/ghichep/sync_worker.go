package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/locvx/ghichep/internal/amqp"
	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/sheets"
)

func syncWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-worker",
		Short: "Consume the sync queue and append transactions to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			url := viper.GetString("amqp.url")
			if url == "" {
				return fmt.Errorf("%w: amqp.url is required", common.ErrMissingConfig)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sheetsCfg := sheets.DefaultConfig()
			if err := sheetsCfg.LoadFromEnv(); err != nil {
				return err
			}
			sheetsCfg.SpreadsheetID = firstNonEmpty(viper.GetString("sheets.spreadsheet_id"), sheetsCfg.SpreadsheetID)
			writer, err := sheets.NewWriter(ctx, sheetsCfg, slog.Default())
			if err != nil {
				return err
			}

			client, err := amqp.NewClient(url,
				viper.GetString("amqp.exchange"),
				viper.GetString("amqp.queue"))
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			err = client.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
				txn, lerr := store.TransactionByID(ctx, msg.TransactionID)
				if lerr != nil {
					if errors.Is(lerr, common.ErrNotFound) {
						// Deleted before the worker got to it; nothing to sync.
						slog.Warn("transaction gone before sync", "transaction_id", msg.TransactionID)
						return nil
					}
					return lerr
				}
				categoryName := ""
				if cat, cerr := store.CategoryByID(ctx, txn.CategoryID); cerr == nil {
					categoryName = cat.Name
				}
				return writer.AppendTransaction(ctx, txn, categoryName)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
