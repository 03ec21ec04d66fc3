package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/format"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

// Writer appends transaction rows to one spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a Google Sheets writer.
func NewWriter(ctx context.Context, cfg Config, logger *slog.Logger) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{service: svc, config: cfg, logger: logger}, nil
}

// AppendTransaction appends one transaction as a row:
// date, amount, note, category, kind.
func (w *Writer) AppendTransaction(ctx context.Context, txn *model.Transaction, categoryName string) error {
	row := []any{
		format.DateTime(txn.OccurredAt),
		txn.Amount,
		txn.Note,
		categoryName,
		string(txn.Kind),
	}
	values := &sheets.ValueRange{Values: [][]any{row}}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	err := common.WithRetry(ctx, func() error {
		_, appendErr := w.service.Spreadsheets.Values.Append(
			w.config.SpreadsheetID,
			fmt.Sprintf("%s!A:E", w.config.SheetName),
			values,
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return appendErr
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to append transaction row: %w", err)
	}

	w.logger.Info("appended transaction to sheet",
		"transaction_id", txn.ID,
		"spreadsheet_id", w.config.SpreadsheetID)
	return nil
}
