// Package query implements the in-memory filter, sort and pagination
// pipeline over system log records.
package query

import (
	"strings"
	"time"

	"github.com/fixora/backoffice/internal/domain"
)

// Filter returns the records satisfying every active criterion of f, in
// their original order. The input slice is not modified.
func Filter(records []domain.LogRecord, f domain.LogFilter, now time.Time) []domain.LogRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	since := f.DateRange.LowerBound(now)

	out := make([]domain.LogRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if f.Category != nil && r.Category != *f.Category {
			continue
		}
		if f.Severity != nil && r.Severity != *f.Severity {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		out = append(out, r)
	}

	return out
}

// Matches reports whether a single record satisfies f
func Matches(r domain.LogRecord, f domain.LogFilter, now time.Time) bool {
	return len(Filter([]domain.LogRecord{r}, f, now)) == 1
}

// matchesSearch expects needle to be lower-cased already
func matchesSearch(r domain.LogRecord, needle string) bool {
	fields := [...]string{
		r.UserName,
		r.UserID,
		r.Action,
		r.Description,
		r.Details.IPAddress,
		r.ID,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Apply filters then sorts records
func Apply(records []domain.LogRecord, f domain.LogFilter, spec domain.SortSpec, now time.Time) []domain.LogRecord {
	return Sort(Filter(records, f, now), spec)
}
