// Package export writes a user's ledger to CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/schollz/progressbar/v3"

	"github.com/locvx/ghichep/internal/format"
	"github.com/locvx/ghichep/internal/service"
)

// CSV streams a user's transactions to w, newest first, with a header row of
// Date, Amount, Note, Category, Kind. When showProgress is set a progress
// bar renders on stderr.
func CSV(ctx context.Context, store service.Storage, userID int64, w io.Writer, showProgress bool) (int, error) {
	txns, err := store.TransactionsInRange(ctx, userID, service.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}

	names := make(map[int]string)
	categories, err := store.Categories(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load categories: %w", err)
	}
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(txns)), "exporting")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Amount", "Note", "Category", "Kind"}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for _, txn := range txns {
		record := []string{
			format.DateTime(txn.OccurredAt),
			strconv.FormatInt(txn.Amount, 10),
			txn.Note,
			names[txn.CategoryID],
			string(txn.Kind),
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write record: %w", err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}
	return len(txns), nil
}
