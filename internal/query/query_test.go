package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/mockdata"
)

var testNow = time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func fixture() []domain.LogRecord {
	return []domain.LogRecord{
		{ID: "a", UserID: "u1", UserName: "Lina Saleh", Action: "deposit.approve", Category: domain.CategoryDeposit, Severity: domain.SeverityCritical, Status: domain.StatusSuccess, Description: "Approved a wallet deposit", Timestamp: testNow.Add(-1 * time.Hour), Details: domain.LogDetails{IPAddress: "10.0.0.1"}},
		{ID: "b", UserID: "u2", UserName: "Karim Nassar", Action: "settlement.payout", Category: domain.CategorySettlement, Severity: domain.SeverityLow, Status: domain.StatusFailed, Description: "Released a settlement payout", Timestamp: testNow.Add(-3 * 24 * time.Hour), Details: domain.LogDetails{IPAddress: "10.0.0.2"}},
		{ID: "c", UserID: "u1", UserName: "Lina Saleh", Action: "ticket.refund", Category: domain.CategoryTicket, Severity: domain.SeverityHigh, Status: domain.StatusPending, Description: "Refunded a ticket order", Timestamp: testNow.Add(-20 * 24 * time.Hour), Details: domain.LogDetails{IPAddress: "172.16.4.9"}},
		{ID: "d", UserID: "u3", UserName: "Maya Khoury", Action: "auth.login", Category: domain.CategoryAuthentication, Severity: domain.SeverityCritical, Status: domain.StatusSuccess, Description: "Signed in to the back office", Timestamp: testNow.Add(-40 * 24 * time.Hour), Details: domain.LogDetails{IPAddress: "10.0.0.3"}},
		{ID: "e", UserID: "u2", UserName: "Karim Nassar", Action: "deposit.reject", Category: domain.CategoryDeposit, Severity: domain.SeverityMedium, Status: domain.StatusCancelled, Description: "Rejected a wallet deposit", Timestamp: testNow.Add(-2 * time.Hour), Details: domain.LogDetails{IPAddress: "10.0.0.4"}},
	}
}

func ids(records []domain.LogRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.LogFilter
		expected []string
	}{
		{"no criteria keeps order", domain.LogFilter{}, []string{"a", "b", "c", "d", "e"}},
		{"search is case-insensitive", domain.LogFilter{Search: "WALLET"}, []string{"a", "e"}},
		{"search matches ip address", domain.LogFilter{Search: "172.16"}, []string{"c"}},
		{"search matches user name", domain.LogFilter{Search: "maya"}, []string{"d"}},
		{"category", domain.LogFilter{Category: ptr(domain.CategoryDeposit)}, []string{"a", "e"}},
		{"severity", domain.LogFilter{Severity: ptr(domain.SeverityCritical)}, []string{"a", "d"}},
		{"user", domain.LogFilter{UserID: ptr("u2")}, []string{"b", "e"}},
		{"status", domain.LogFilter{Status: ptr(domain.StatusFailed)}, []string{"b"}},
		{"today", domain.LogFilter{DateRange: domain.DateRangeToday}, []string{"a", "e"}},
		{"week", domain.LogFilter{DateRange: domain.DateRangeWeek}, []string{"a", "b", "e"}},
		{"month", domain.LogFilter{DateRange: domain.DateRangeMonth}, []string{"a", "b", "c", "e"}},
		{"conjunction", domain.LogFilter{Category: ptr(domain.CategoryDeposit), Severity: ptr(domain.SeverityCritical)}, []string{"a"}},
		{"no match", domain.LogFilter{Search: "nothing-like-this"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(fixture(), tt.filter, testNow)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilter_SubsetAndConjunction(t *testing.T) {
	records := mockdata.NewGenerator(99).Generate(500, testNow)

	filters := []domain.LogFilter{
		{Severity: ptr(domain.SeverityHigh)},
		{Category: ptr(domain.CategoryNFCCard), Status: ptr(domain.StatusSuccess)},
		{Search: "deposit", DateRange: domain.DateRangeWeek},
		{UserID: ptr("usr_1003"), Severity: ptr(domain.SeverityCritical), DateRange: domain.DateRangeMonth},
	}

	all := make(map[string]struct{}, len(records))
	for _, r := range records {
		all[r.ID] = struct{}{}
	}

	for _, f := range filters {
		got := Filter(records, f, testNow)
		assert.LessOrEqual(t, len(got), len(records))
		for _, r := range got {
			_, ok := all[r.ID]
			assert.True(t, ok, "filtered record %s not in source", r.ID)
			assert.True(t, Matches(r, f, testNow))
			if f.Severity != nil {
				assert.Equal(t, *f.Severity, r.Severity)
			}
			if f.Category != nil {
				assert.Equal(t, *f.Category, r.Category)
			}
			if f.Status != nil {
				assert.Equal(t, *f.Status, r.Status)
			}
			if f.UserID != nil {
				assert.Equal(t, *f.UserID, r.UserID)
			}
			if f.DateRange != "" {
				assert.False(t, r.Timestamp.Before(f.DateRange.LowerBound(testNow)))
			}
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := fixture()
	before := ids(records)
	_ = Filter(records, domain.LogFilter{Severity: ptr(domain.SeverityLow)}, testNow)
	assert.Equal(t, before, ids(records))
}

func TestSort(t *testing.T) {
	records := fixture()

	byTimeDesc := Sort(records, domain.SortSpec{Field: domain.SortByTimestamp, Order: domain.SortDesc})
	assert.Equal(t, []string{"a", "e", "b", "c", "d"}, ids(byTimeDesc))

	byTimeAsc := Sort(records, domain.SortSpec{Field: domain.SortByTimestamp, Order: domain.SortAsc})
	assert.Equal(t, []string{"d", "c", "b", "e", "a"}, ids(byTimeAsc))

	byUser := Sort(records, domain.SortSpec{Field: domain.SortByUser, Order: domain.SortAsc})
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids(byUser))

	byAction := Sort(records, domain.SortSpec{Field: domain.SortByAction, Order: domain.SortDesc})
	assert.Equal(t, []string{"c", "b", "e", "a", "d"}, ids(byAction))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(records))
}

func TestSort_TimestampComparesAsInstant(t *testing.T) {
	// Lexically "2026-04-10T09:00:00+05:00" sorts after "2026-04-10T08:00:00Z"
	// but it is the earlier instant.
	east := time.FixedZone("east", 5*60*60)
	records := []domain.LogRecord{
		{ID: "utc", Timestamp: time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)},
		{ID: "east", Timestamp: time.Date(2026, 4, 10, 9, 0, 0, 0, east)},
	}

	got := Sort(records, domain.SortSpec{Field: domain.SortByTimestamp, Order: domain.SortAsc})
	assert.Equal(t, []string{"east", "utc"}, ids(got))
}

func TestPaginate(t *testing.T) {
	records := fixture()

	p := Paginate(records, 1, 2)
	assert.Equal(t, []string{"a", "b"}, ids(p.Items))
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.TotalItems)

	p = Paginate(records, 3, 2)
	assert.Equal(t, []string{"e"}, ids(p.Items))

	p = Paginate(records, 4, 2)
	assert.Empty(t, p.Items)
	assert.Equal(t, 4, p.Page)

	p = Paginate(records, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = Paginate(nil, 1, 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
}

func TestPaginate_SizeAboveMaxIsHonoured(t *testing.T) {
	records := mockdata.NewGenerator(9).Generate(137, testNow)

	p := Paginate(records, 1, 137)
	assert.Equal(t, 137, p.PageSize)
	assert.Equal(t, 1, p.TotalPages)
	assert.Len(t, p.Items, 137)
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{25, 25},
		{MaxPageSize, MaxPageSize},
		{500, MaxPageSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPageSize(tt.in), "size %d", tt.in)
	}
}

func TestPaginate_PagesReassembleSequence(t *testing.T) {
	records := mockdata.NewGenerator(5).Generate(137, testNow)

	for _, size := range []int{1, 7, 10, 25, 50, 100, 137} {
		first := Paginate(records, 1, size)
		expectedPages := (len(records) + size - 1) / size
		require.Equal(t, expectedPages, first.TotalPages, "page size %d", size)

		var rebuilt []domain.LogRecord
		for page := 1; page <= first.TotalPages; page++ {
			rebuilt = append(rebuilt, Paginate(records, page, size).Items...)
		}
		assert.Equal(t, ids(records), ids(rebuilt), "page size %d", size)
	}
}
