// Package domain provides types shared by the read-only repositories.
package domain

import (
	"time"
)

// Period is an optional half-open date range [From, To) used to narrow list
// queries. A zero bound is open. Stores that cannot filter may ignore it;
// callers always re-check membership.
type Period struct {
	From time.Time
	To   time.Time
}

// IsOpen reports whether neither bound is set.
func (p Period) IsOpen() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// Contains reports whether t is inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}
