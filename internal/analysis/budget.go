package analysis

import (
	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

// Status compares spending against a budget limit.
type Status string

const (
	StatusOverBudget  Status = "over_budget"
	StatusExactMatch  Status = "exact_match"
	StatusUnderBudget Status = "under_budget"
)

// BudgetStatus is the per-category outcome of a budget comparison.
// Percent is floor(100 * spent / limit) capped at 100; a zero limit
// reports percent 0 while the status still reflects spent vs limit.
type BudgetStatus struct {
	Category string
	Spent    decimal.Decimal
	Limit    decimal.Decimal
	Percent  int
	Status   Status
}

var oneHundred = decimal.NewFromInt(100)

// CompareBudget evaluates each non-reserved category appearing in the
// transaction set against the supplied limits. A category without a
// limit defaults to zero.
func CompareBudget(limits map[string]decimal.Decimal, txs []core.Transaction) []BudgetStatus {
	var (
		seen  = make(map[string]bool)
		order []string
		spent = make(map[string]decimal.Decimal)
	)
	for _, tx := range txs {
		if core.IsReserved(tx.Category) {
			continue
		}
		if !seen[tx.Category] {
			seen[tx.Category] = true
			order = append(order, tx.Category)
		}
		if tx.HasDebit() {
			spent[tx.Category] = spent[tx.Category].Add(tx.Debit.Decimal)
		}
	}

	statuses := make([]BudgetStatus, 0, len(order))
	for _, cat := range order {
		limit := limits[cat]
		s := BudgetStatus{
			Category: cat,
			Spent:    spent[cat],
			Limit:    limit,
		}
		if limit.IsPositive() {
			pct := s.Spent.Mul(oneHundred).Div(limit).Floor().IntPart()
			if pct > 100 {
				pct = 100
			}
			s.Percent = int(pct)
		}
		switch s.Spent.Cmp(limit) {
		case 1:
			s.Status = StatusOverBudget
		case 0:
			s.Status = StatusExactMatch
		default:
			s.Status = StatusUnderBudget
		}
		statuses = append(statuses, s)
	}
	return statuses
}
