package query

import (
	"slices"
	"strings"

	"github.com/fixora/backoffice/internal/domain"
)

// Sort returns a copy of records ordered by spec. Timestamps compare as
// instants; every other field compares as a string. Equal keys keep their
// input order.
func Sort(records []domain.LogRecord, spec domain.SortSpec) []domain.LogRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.LogRecord{}
	}
	if spec.Field == "" {
		spec = domain.DefaultSort()
	}

	cmp := comparator(spec.Field)
	slices.SortStableFunc(out, func(a, b domain.LogRecord) int {
		c := cmp(a, b)
		if spec.Order == domain.SortDesc {
			return -c
		}
		return c
	})

	return out
}

func comparator(field domain.SortField) func(a, b domain.LogRecord) int {
	switch field {
	case domain.SortByUser:
		return byString(func(r domain.LogRecord) string { return r.UserName })
	case domain.SortByAction:
		return byString(func(r domain.LogRecord) string { return r.Action })
	case domain.SortByCategory:
		return byString(func(r domain.LogRecord) string { return string(r.Category) })
	case domain.SortBySeverity:
		return byString(func(r domain.LogRecord) string { return string(r.Severity) })
	case domain.SortByStatus:
		return byString(func(r domain.LogRecord) string { return string(r.Status) })
	default:
		return func(a, b domain.LogRecord) int { return a.Timestamp.Compare(b.Timestamp) }
	}
}

func byString(key func(domain.LogRecord) string) func(a, b domain.LogRecord) int {
	return func(a, b domain.LogRecord) int {
		return strings.Compare(key(a), key(b))
	}
}
