// Package fiscal scopes records to a fiscal year.
//
// A fiscal year is a calendar year. Records carry a timestamp and belong
// to the year of that timestamp in the configured location.
package fiscal

import (
	"fmt"
	"time"
)

// Year is a calendar fiscal year.
type Year int

const (
	minYear = 1900
	maxYear = 9999
)

// Validate rejects years outside 1900..9999.
func (y Year) Validate() error {
	if y < minYear || y > maxYear {
		return fmt.Errorf("fiscal year %d out of range [%d, %d]", y, minYear, maxYear)
	}
	return nil
}

// Bounds returns the half-open interval [start, end) of the year in loc.
func (y Year) Bounds(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(int(y), time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// Scope decides fiscal-year membership in a fixed location.
type Scope struct {
	Year     Year
	Location *time.Location
}

// NewScope builds a Scope; a nil location means UTC.
func NewScope(year Year, loc *time.Location) Scope {
	if loc == nil {
		loc = time.UTC
	}
	return Scope{Year: year, Location: loc}
}

// Contains reports whether t falls in the scope's year. Zero times never do.
func (s Scope) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return Year(t.In(loc).Year()) == s.Year
}

// Clock supplies the current time. Surfaces use it to default the year.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Current returns the fiscal year containing clock.Now() in loc.
func Current(clock Clock, loc *time.Location) Year {
	if loc == nil {
		loc = time.UTC
	}
	return Year(clock.Now().In(loc).Year())
}
