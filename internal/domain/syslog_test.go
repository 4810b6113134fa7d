package domain

import (
	"testing"
	"time"
)

func TestDateRange_LowerBound(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		r        DateRange
		expected time.Time
	}{
		{"all", DateRangeAll, time.Time{}},
		{"empty", "", time.Time{}},
		{"today", DateRangeToday, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"week", DateRangeWeek, time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC)},
		{"month", DateRangeMonth, time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.LowerBound(now)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLogFilter_IsZero(t *testing.T) {
	critical := SeverityCritical

	if !(LogFilter{}).IsZero() {
		t.Error("Expected empty filter to be zero")
	}
	if !(LogFilter{Search: "   ", DateRange: DateRangeAll}).IsZero() {
		t.Error("Expected blank search with all range to be zero")
	}
	if (LogFilter{Severity: &critical}).IsZero() {
		t.Error("Expected severity filter to be active")
	}
	if (LogFilter{DateRange: DateRangeToday}).IsZero() {
		t.Error("Expected date range filter to be active")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" NFC_Card ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c != CategoryNFCCard {
		t.Errorf("Expected %s, got %s", CategoryNFCCard, c)
	}

	if _, err := ParseCategory("payroll"); err != ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestParseSeverityAndStatus(t *testing.T) {
	if s, err := ParseSeverity("critical"); err != nil || s != SeverityCritical {
		t.Errorf("Expected critical, got %s (%v)", s, err)
	}
	if _, err := ParseSeverity("urgent"); err != ErrInvalidSeverity {
		t.Errorf("Expected ErrInvalidSeverity, got %v", err)
	}
	if s, err := ParseStatus("FAILED"); err != nil || s != StatusFailed {
		t.Errorf("Expected failed, got %s (%v)", s, err)
	}
	if _, err := ParseStatus("done"); err != ErrInvalidStatus {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseDateRange(t *testing.T) {
	if r, err := ParseDateRange(""); err != nil || r != DateRangeAll {
		t.Errorf("Expected all for empty input, got %s (%v)", r, err)
	}
	if _, err := ParseDateRange("year"); err != ErrInvalidDateRange {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestParseSort(t *testing.T) {
	spec, err := ParseSort("", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec != DefaultSort() {
		t.Errorf("Expected default sort, got %+v", spec)
	}

	spec, err = ParseSort("user", "ASC")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec.Field != SortByUser || spec.Order != SortAsc {
		t.Errorf("Expected user asc, got %+v", spec)
	}

	if _, err := ParseSort("venue", ""); err != ErrInvalidSortField {
		t.Errorf("Expected ErrInvalidSortField, got %v", err)
	}
	if _, err := ParseSort("", "sideways"); err != ErrInvalidSortOrder {
		t.Errorf("Expected ErrInvalidSortOrder, got %v", err)
	}
}

func TestCategoryValues(t *testing.T) {
	if len(AllCategories) != 11 {
		t.Errorf("Expected 11 categories, got %d", len(AllCategories))
	}
	for _, c := range AllCategories {
		if !c.Valid() {
			t.Errorf("Expected %s to be valid", c)
		}
	}
}
