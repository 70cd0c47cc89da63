// Package statement parses raw CSV bank statements into transactions and
// assigns categories from keyword rules.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"clearspend/internal/categories"
	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

// Statement dates come in the bank's fixed export format, e.g. "05-Jan-24".
const dateLayout = "02-Jan-06"

var requiredColumns = []string{"Date", "Details", "Debit", "Credit", "Balance"}

// Parse reads a CSV statement into transactions. The load is
// all-or-nothing: a missing required column or an unparseable date aborts
// with MalformedStatementError. Numeric cells are lenient; a cell that
// fails coercion becomes an absent amount.
func Parse(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &core.MalformedStatementError{Cause: fmt.Errorf("read csv: %w", err)}
	}
	if len(records) == 0 {
		return nil, &core.MalformedStatementError{Cause: fmt.Errorf("statement has no header row")}
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &core.MalformedStatementError{
				Column: col,
				Cause:  fmt.Errorf("required column missing"),
			}
		}
	}

	txs := make([]core.Transaction, 0, len(records)-1)
	for row, rec := range records[1:] {
		date, err := time.Parse(dateLayout, strings.TrimSpace(rec[index["Date"]]))
		if err != nil {
			return nil, &core.MalformedStatementError{
				Row:    row + 1,
				Column: "Date",
				Cause:  err,
			}
		}
		txs = append(txs, core.Transaction{
			Date:     date,
			Details:  rec[index["Details"]],
			Debit:    parseCell(rec[index["Debit"]]),
			Credit:   parseCell(rec[index["Credit"]]),
			Balance:  parseCell(rec[index["Balance"]]),
			Category: core.CategoryUncategorized,
		})
	}
	return txs, nil
}

// Load parses the statement and immediately classifies it against the
// store, so callers never see an unclassified table.
func Load(r io.Reader, store *categories.Store) ([]core.Transaction, error) {
	txs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Classify(txs, store.Snapshot()), nil
}

func parseCell(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
