// Package table filters and aggregates parsed records the way the tabular view
// does: calendar-date ranges, column equality and value counts.
package table

import (
	"errors"
	"fmt"
	"time"

	"github.com/cyra/weblog/internal/parser"
)

// ErrUnknownColumn is returned for a column name that no record carries.
var ErrUnknownColumn = errors.New("unknown column")

// Columns returns the record columns followed by the derived date column.
func Columns() []string {
	return append(parser.Columns(), parser.ColDate)
}

// Filter selects records. Zero bounds are open; date bounds compare calendar dates
// in each record's own offset. All bounds are inclusive.
type Filter struct {
	From  time.Time
	To    time.Time
	Match map[string]string
	// StatusMin and StatusMax bound the numeric status code (0 = no bound).
	StatusMin int
	StatusMax int
}

// Apply returns the records passing f, preserving order. The input is not modified.
func Apply(records []parser.Record, f Filter) ([]parser.Record, error) {
	for col := range f.Match {
		if !isColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}

	from, to := dayOf(f.From), dayOf(f.To)

	out := make([]parser.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		day := dayOf(r.TimeLocal)
		if !f.From.IsZero() && day.Before(from) {
			continue
		}
		if !f.To.IsZero() && day.After(to) {
			continue
		}
		if !inStatusRange(r, f.StatusMin, f.StatusMax) {
			continue
		}
		if !matchAll(r, f.Match) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func matchAll(r *parser.Record, match map[string]string) bool {
	for col, want := range match {
		if got, _ := r.Field(col); got != want {
			return false
		}
	}
	return true
}

func inStatusRange(r *parser.Record, min, max int) bool {
	if min == 0 && max == 0 {
		return true
	}
	code, err := r.StatusCode()
	if err != nil {
		return false
	}
	if min > 0 && code < min {
		return false
	}
	if max > 0 && code > max {
		return false
	}
	return true
}

func isColumn(col string) bool {
	var r parser.Record
	_, ok := r.Field(col)
	return ok
}

// dayOf drops the clock and offset, keeping the wall-clock date.
func dayOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
