package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"Date", "Details", "Debit", "Credit", "Balance", "Category"}

// WriteCSV exports the full classified transaction table: header row,
// no index column, absent amounts as empty cells.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.Format("02-Jan-06"),
			tx.Details,
			cellString(tx.Debit),
			cellString(tx.Credit),
			cellString(tx.Balance),
			tx.Category,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
