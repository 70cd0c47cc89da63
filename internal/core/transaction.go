package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Reserved categories. Neither is assigned through keyword rules:
// Uncategorized is the default, Income / Receivables is assigned
// structurally to any transaction carrying a credit.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryIncome        = "Income / Receivables"
)

// IsReserved reports whether name is one of the reserved categories.
func IsReserved(name string) bool {
	return name == CategoryUncategorized || name == CategoryIncome
}

type (
	// Transaction is one normalized statement row. Debit, Credit and
	// Balance are optional: a cell that was empty or failed numeric
	// coercion is carried as an invalid NullDecimal, not an error.
	Transaction struct {
		Date     time.Time
		Details  string
		Debit    decimal.NullDecimal
		Credit   decimal.NullDecimal
		Balance  decimal.NullDecimal
		Category string
	}
)

var ErrDebitAndCredit = errors.New("transaction carries both a debit and a credit")

// HasDebit reports whether the transaction carries a real debit amount
// (present and nonzero).
func (t Transaction) HasDebit() bool {
	return hasAmount(t.Debit)
}

// HasCredit reports whether the transaction carries a real credit amount.
func (t Transaction) HasCredit() bool {
	return hasAmount(t.Credit)
}

// Day returns the transaction's calendar day, discarding time-of-day.
func (t Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate enforces the row invariant: at most one of debit/credit is
// populated. A row with neither is inert and still valid.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	if t.HasDebit() && t.HasCredit() {
		return ErrDebitAndCredit
	}
	return nil
}

func hasAmount(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}

// Amount builds a valid NullDecimal. Test and seed helper.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NoAmount is the absent-cell value.
func NoAmount() decimal.NullDecimal {
	return decimal.NullDecimal{}
}
