package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when a keyword mutation targets a
	// category that does not exist in the store.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmptyDataset is returned by aggregates that have no well-defined
	// result over zero qualifying rows, such as the top spending category.
	ErrEmptyDataset = errors.New("no qualifying transactions in dataset")
)

// MalformedStatementError aborts a statement load. It is raised for a
// missing required column or an unparseable date; numeric cells are
// coerced leniently and never produce it.
type MalformedStatementError struct {
	Row    int    // 1-based data row, 0 when the header itself is bad
	Column string // offending column, empty for structural problems
	Cause  error
}

func (e *MalformedStatementError) Error() string {
	switch {
	case e.Row == 0 && e.Column == "":
		return fmt.Sprintf("malformed statement: %v", e.Cause)
	case e.Row == 0:
		return fmt.Sprintf("malformed statement: column %q: %v", e.Column, e.Cause)
	default:
		return fmt.Sprintf("malformed statement: row %d, column %q: %v", e.Row, e.Column, e.Cause)
	}
}

func (e *MalformedStatementError) Unwrap() error {
	return e.Cause
}
