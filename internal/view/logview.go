// Package view keeps per-client list state for the system log screen:
// filter controls, debounced search, sort and the current page.
package view

import (
	"sync"
	"time"

	"github.com/fixora/backoffice/internal/debounce"
	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/query"
)

// State is a snapshot of a view's controls
type State struct {
	ID            string           `json:"id"`
	Filter        domain.LogFilter `json:"filter"`
	PendingSearch string           `json:"pending_search"`
	Sort          domain.SortSpec  `json:"sort"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
}

// Result is what a view renders for its current state
type Result struct {
	State State            `json:"state"`
	Page  query.Page       `json:"page"`
	Stats *domain.LogStats `json:"stats"`
}

// LogView holds one client's list state. Changing any filter criterion
// resets the page to 1; search text is committed through a debouncer.
type LogView struct {
	mu       sync.Mutex
	id       string
	filter   domain.LogFilter
	pending  string
	sort     domain.SortSpec
	page     int
	pageSize int
	lastUsed time.Time
	now      func() time.Time
	search   *debounce.Debouncer[string]
}

// NewLogView creates a view with no filters on page 1
func NewLogView(id string, pageSize int, searchDelay time.Duration, now func() time.Time) *LogView {
	if now == nil {
		now = time.Now
	}
	pageSize = query.ClampPageSize(pageSize)

	v := &LogView{
		id:       id,
		filter:   domain.LogFilter{DateRange: domain.DateRangeAll},
		sort:     domain.DefaultSort(),
		page:     1,
		pageSize: pageSize,
		now:      now,
	}
	v.lastUsed = now()
	v.search = debounce.New(searchDelay, v.commitSearch)
	return v
}

// ID returns the view identifier
func (v *LogView) ID() string { return v.id }

func (v *LogView) commitSearch(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filter.Search != text {
		v.filter.Search = text
		v.page = 1
	}
}

// SetSearch records raw search input. The filter only changes once input
// has been idle for the debounce window.
func (v *LogView) SetSearch(text string) {
	v.mu.Lock()
	v.pending = text
	v.touch()
	v.mu.Unlock()

	v.search.Set(text)
}

// FlushSearch commits pending search input immediately
func (v *LogView) FlushSearch() {
	v.search.Flush()
}

// SetCategory sets or clears (nil) the category criterion
func (v *LogView) SetCategory(c *domain.LogCategory) {
	v.update(func(f *domain.LogFilter) { f.Category = c })
}

// SetSeverity sets or clears (nil) the severity criterion
func (v *LogView) SetSeverity(s *domain.LogSeverity) {
	v.update(func(f *domain.LogFilter) { f.Severity = s })
}

// SetUser sets or clears (nil) the actor criterion
func (v *LogView) SetUser(userID *string) {
	v.update(func(f *domain.LogFilter) { f.UserID = userID })
}

// SetStatus sets or clears (nil) the status criterion
func (v *LogView) SetStatus(s *domain.LogStatus) {
	v.update(func(f *domain.LogFilter) { f.Status = s })
}

// SetDateRange sets the relative date criterion
func (v *LogView) SetDateRange(r domain.DateRange) {
	v.update(func(f *domain.LogFilter) { f.DateRange = r })
}

// ClearFilters drops every criterion, including pending search input
func (v *LogView) ClearFilters() {
	v.mu.Lock()
	v.pending = ""
	v.mu.Unlock()

	v.search.Set("")
	v.search.Flush()
	v.update(func(f *domain.LogFilter) {
		*f = domain.LogFilter{DateRange: domain.DateRangeAll}
	})
}

func (v *LogView) update(apply func(f *domain.LogFilter)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	apply(&v.filter)
	v.page = 1
	v.touch()
}

// SetSort changes ordering without leaving the current page
func (v *LogView) SetSort(spec domain.SortSpec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = spec
	v.touch()
}

// SetPageSize changes the page size and returns to page 1
func (v *LogView) SetPageSize(size int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pageSize = query.ClampPageSize(size)
	v.page = 1
	v.touch()
}

// SetPage moves to page (1-indexed)
func (v *LogView) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page, _ = query.NormalizePage(page, v.pageSize)
	v.touch()
}

// State returns a snapshot of the controls
func (v *LogView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state()
}

func (v *LogView) state() State {
	return State{
		ID:            v.id,
		Filter:        v.filter,
		PendingSearch: v.pending,
		Sort:          v.sort,
		Page:          v.page,
		PageSize:      v.pageSize,
	}
}

// Render runs the filter pipeline over records for the current state.
// Stats describe the whole filtered set, not just the visible page.
func (v *LogView) Render(records []domain.LogRecord) Result {
	v.mu.Lock()
	st := v.state()
	v.touch()
	v.mu.Unlock()

	now := v.now()
	filtered := query.Apply(records, st.Filter, st.Sort, now)

	return Result{
		State: st,
		Page:  query.Paginate(filtered, st.Page, st.PageSize),
		Stats: domain.NewLogStats(filtered, now),
	}
}

// IdleSince reports when the view was last used
func (v *LogView) IdleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUsed
}

// Close cancels any pending search commit
func (v *LogView) Close() {
	v.search.Stop()
}

// touch MUST be called with v.mu held.
func (v *LogView) touch() {
	v.lastUsed = v.now()
}
