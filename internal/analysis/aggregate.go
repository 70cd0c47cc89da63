// Package analysis computes derived views over a classified transaction
// set: category totals, daily spend, recurring payments, no-spend days
// and budget comparisons.
package analysis

import (
	"sort"
	"time"

	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

// minRecurringCount is the occurrence threshold for a details group to be
// surfaced as a recurring payment.
const minRecurringCount = 3

type (
	// CategoryTotal is the summed debit for one category.
	CategoryTotal struct {
		Category string
		Amount   decimal.Decimal
	}

	// DailyPoint is the summed debit for one calendar day.
	DailyPoint struct {
		Day   time.Time
		Total decimal.Decimal
	}

	// RecurringGroup is a set of debit transactions sharing identical
	// details text.
	RecurringGroup struct {
		Details string
		Count   int
	}

	// NoSpendSummary counts days without debit activity inside the
	// statement's inclusive date range.
	NoSpendSummary struct {
		NoSpendDays int
		TotalDays   int
	}

	// Totals are the plain column sums, absent cells counted as zero.
	Totals struct {
		Credit       decimal.Decimal
		Debit        decimal.Decimal
		Net          decimal.Decimal
		Transactions int
	}
)

// CategoryTotals sums debit amounts per category over debit-bearing rows,
// sorted descending by amount.
func CategoryTotals(txs []core.Transaction) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range txs {
		if !tx.HasDebit() {
			continue
		}
		if _, ok := sums[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Debit.Decimal)
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		totals = append(totals, CategoryTotal{Category: cat, Amount: sums[cat]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	return totals
}

// TopCategory returns the category with the largest debit total. With no
// debit-bearing rows there is no well-defined maximum and ErrEmptyDataset
// is returned.
func TopCategory(txs []core.Transaction) (CategoryTotal, error) {
	totals := CategoryTotals(txs)
	if len(totals) == 0 {
		return CategoryTotal{}, core.ErrEmptyDataset
	}
	return totals[0], nil
}

// DailySeries sums debit amounts per calendar day, ascending by day.
func DailySeries(txs []core.Transaction) []DailyPoint {
	sums := make(map[time.Time]decimal.Decimal)
	for _, tx := range txs {
		if !tx.HasDebit() {
			continue
		}
		day := tx.Day()
		sums[day] = sums[day].Add(tx.Debit.Decimal)
	}

	series := make([]DailyPoint, 0, len(sums))
	for day, total := range sums {
		series = append(series, DailyPoint{Day: day, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Day.Before(series[j].Day)
	})
	return series
}

// NoSpendDays counts the calendar days in [min date, max date] of the
// full transaction set that carry no debit activity. A day with only
// credits is a no-spend day.
func NoSpendDays(txs []core.Transaction) NoSpendSummary {
	if len(txs) == 0 {
		return NoSpendSummary{}
	}

	minDay, maxDay := txs[0].Day(), txs[0].Day()
	spent := make(map[time.Time]bool)
	for _, tx := range txs {
		day := tx.Day()
		if day.Before(minDay) {
			minDay = day
		}
		if day.After(maxDay) {
			maxDay = day
		}
		if tx.HasDebit() {
			spent[day] = true
		}
	}

	summary := NoSpendSummary{}
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		summary.TotalDays++
		if !spent[day] {
			summary.NoSpendDays++
		}
	}
	return summary
}

// Recurring groups debit-bearing rows by exact details text and surfaces
// groups occurring at least three times, descending by count.
func Recurring(txs []core.Transaction) []RecurringGroup {
	counts := make(map[string]int)
	var order []string
	for _, tx := range txs {
		if !tx.HasDebit() {
			continue
		}
		if _, ok := counts[tx.Details]; !ok {
			order = append(order, tx.Details)
		}
		counts[tx.Details]++
	}

	var groups []RecurringGroup
	for _, details := range order {
		if counts[details] >= minRecurringCount {
			groups = append(groups, RecurringGroup{Details: details, Count: counts[details]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// ComputeTotals sums the credit and debit columns treating absent cells
// as zero. Net is credit minus debit.
func ComputeTotals(txs []core.Transaction) Totals {
	t := Totals{Transactions: len(txs)}
	for _, tx := range txs {
		if tx.Credit.Valid {
			t.Credit = t.Credit.Add(tx.Credit.Decimal)
		}
		if tx.Debit.Valid {
			t.Debit = t.Debit.Add(tx.Debit.Decimal)
		}
	}
	t.Net = t.Credit.Sub(t.Debit)
	return t
}
