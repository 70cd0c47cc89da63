package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"clearspend/internal/analysis"
	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

type (
	transactionJSON struct {
		Date     string              `json:"date"`
		Details  string              `json:"details"`
		Debit    decimal.NullDecimal `json:"debit"`
		Credit   decimal.NullDecimal `json:"credit"`
		Balance  decimal.NullDecimal `json:"balance"`
		Category string              `json:"category"`
	}

	totalsJSON struct {
		Credit       decimal.Decimal `json:"credit"`
		Debit        decimal.Decimal `json:"debit"`
		Net          decimal.Decimal `json:"net"`
		Transactions int             `json:"transactions"`
	}

	categoryTotalJSON struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	dailyPointJSON struct {
		Day   string          `json:"day"`
		Total decimal.Decimal `json:"total"`
	}

	recurringJSON struct {
		Details string `json:"details"`
		Count   int    `json:"count"`
	}

	noSpendJSON struct {
		NoSpendDays int `json:"no_spend_days"`
		TotalDays   int `json:"total_days"`
	}

	summaryJSON struct {
		Totals         totalsJSON          `json:"totals"`
		TopCategory    *categoryTotalJSON  `json:"top_category,omitempty"`
		NoSpend        noSpendJSON         `json:"no_spend"`
		CategoryTotals []categoryTotalJSON `json:"category_totals"`
		DailySeries    []dailyPointJSON    `json:"daily_series"`
		Recurring      []recurringJSON     `json:"recurring"`
	}
)

func toTransactionJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		out[i] = transactionJSON{
			Date:     tx.Date.Format("2006-01-02"),
			Details:  tx.Details,
			Debit:    tx.Debit,
			Credit:   tx.Credit,
			Balance:  tx.Balance,
			Category: tx.Category,
		}
	}
	return out
}

// buildSummary computes every aggregate view. An empty or unloaded table
// yields a neutral summary; only the top category, which has no neutral
// value, is omitted.
func buildSummary(txs []core.Transaction) summaryJSON {
	totals := analysis.ComputeTotals(txs)
	noSpend := analysis.NoSpendDays(txs)

	summary := summaryJSON{
		Totals: totalsJSON{
			Credit:       totals.Credit,
			Debit:        totals.Debit,
			Net:          totals.Net,
			Transactions: totals.Transactions,
		},
		NoSpend:        noSpendJSON{NoSpendDays: noSpend.NoSpendDays, TotalDays: noSpend.TotalDays},
		CategoryTotals: []categoryTotalJSON{},
		DailySeries:    []dailyPointJSON{},
		Recurring:      []recurringJSON{},
	}

	if top, err := analysis.TopCategory(txs); err == nil {
		summary.TopCategory = &categoryTotalJSON{Category: top.Category, Amount: top.Amount}
	}
	for _, ct := range analysis.CategoryTotals(txs) {
		summary.CategoryTotals = append(summary.CategoryTotals, categoryTotalJSON{Category: ct.Category, Amount: ct.Amount})
	}
	for _, p := range analysis.DailySeries(txs) {
		summary.DailySeries = append(summary.DailySeries, dailyPointJSON{Day: p.Day.Format("2006-01-02"), Total: p.Total})
	}
	for _, g := range analysis.Recurring(txs) {
		summary.Recurring = append(summary.Recurring, recurringJSON{Details: g.Details, Count: g.Count})
	}
	return summary
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
