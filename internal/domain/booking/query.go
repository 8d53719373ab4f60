package booking

import (
	"strings"

	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// StateFilter selects which bookings a list query returns. FilterAll is a
// query-only wildcard and never a stored status.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterWaiting  StateFilter = "WAITING"
	FilterApproved StateFilter = "APPROVED"
	FilterRejected StateFilter = "REJECTED"
	FilterCanceled StateFilter = "CANCELED"
)

// ParseStateFilter converts a query parameter into a StateFilter. An empty
// value means FilterAll; anything unrecognized is a validation error.
func ParseStateFilter(s string) (StateFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := StateFilter(strings.ToUpper(s)); f {
	case FilterAll, FilterWaiting, FilterApproved, FilterRejected, FilterCanceled:
		return f, nil
	default:
		return "", apperrors.NewValidation("unknown state: " + s)
	}
}

// Status returns the concrete status the filter restricts to, or false for
// the ALL wildcard.
func (f StateFilter) Status() (Status, bool) {
	if f == FilterAll || f == "" {
		return "", false
	}
	return Status(f), true
}

// Page is a row-offset pagination window: skip Offset rows, return at most
// Limit.
type Page struct {
	Offset int
	Limit  int
}

// NewPage validates the raw from/size query parameters.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, apperrors.NewValidation("from must not be negative")
	}
	if size <= 0 {
		return Page{}, apperrors.NewValidation("size must be positive")
	}
	return Page{Offset: from, Limit: size}, nil
}
