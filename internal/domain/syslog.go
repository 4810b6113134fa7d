package domain

import (
	"strings"
	"time"
)

// LogCategory represents the functional area a log record belongs to
type LogCategory string

const (
	CategoryAuthentication LogCategory = "authentication"
	CategoryUserManagement LogCategory = "user_management"
	CategoryTicket         LogCategory = "ticket"
	CategoryDeposit        LogCategory = "deposit"
	CategorySettlement     LogCategory = "settlement"
	CategoryNFCCard        LogCategory = "nfc_card"
	CategoryUsher          LogCategory = "usher"
	CategoryVenue          LogCategory = "venue"
	CategoryExpense        LogCategory = "expense"
	CategorySystem         LogCategory = "system"
	CategorySecurity       LogCategory = "security"
)

// AllCategories lists every category in display order
var AllCategories = []LogCategory{
	CategoryAuthentication,
	CategoryUserManagement,
	CategoryTicket,
	CategoryDeposit,
	CategorySettlement,
	CategoryNFCCard,
	CategoryUsher,
	CategoryVenue,
	CategoryExpense,
	CategorySystem,
	CategorySecurity,
}

// Valid reports whether c is a known category
func (c LogCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// LogSeverity represents how serious a logged action is
type LogSeverity string

const (
	SeverityLow      LogSeverity = "low"
	SeverityMedium   LogSeverity = "medium"
	SeverityHigh     LogSeverity = "high"
	SeverityCritical LogSeverity = "critical"
)

// AllSeverities lists every severity from lowest to highest
var AllSeverities = []LogSeverity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is a known severity
func (s LogSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// LogStatus represents the outcome of a logged action
type LogStatus string

const (
	StatusSuccess   LogStatus = "success"
	StatusFailed    LogStatus = "failed"
	StatusPending   LogStatus = "pending"
	StatusCancelled LogStatus = "cancelled"
)

// AllStatuses lists every status
var AllStatuses = []LogStatus{StatusSuccess, StatusFailed, StatusPending, StatusCancelled}

// Valid reports whether s is a known status
func (s LogStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Back-office roles that appear as log actors
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleSupport    = "support"
	RoleUsher      = "usher"
	RoleOrganizer  = "organizer"
)

// FieldChange describes one field modified by a logged action
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// LogDetails carries the request context captured with a log record
type LogDetails struct {
	IPAddress       string            `json:"ip_address"`
	UserAgent       string            `json:"user_agent"`
	Location        string            `json:"location"`
	Device          string            `json:"device"`
	SessionID       string            `json:"session_id"`
	AffectedRecords int               `json:"affected_records"`
	Changes         []FieldChange     `json:"changes,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// LogRecord is one entry of the back-office system log. Records are never
// modified after creation.
type LogRecord struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	UserID      string      `json:"user_id"`
	UserName    string      `json:"user_name"`
	UserRole    string      `json:"user_role"`
	Action      string      `json:"action"`
	Category    LogCategory `json:"category"`
	Severity    LogSeverity `json:"severity"`
	Description string      `json:"description"`
	Status      LogStatus   `json:"status"`
	Details     LogDetails  `json:"details"`
}

// DateRange is a relative lower bound on record timestamps
type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

// Valid reports whether r is a known date range. The empty range means all.
func (r DateRange) Valid() bool {
	switch r {
	case "", DateRangeAll, DateRangeToday, DateRangeWeek, DateRangeMonth:
		return true
	}
	return false
}

// LowerBound returns the inclusive lower bound for r relative to now.
// The zero time means no bound.
func (r DateRange) LowerBound(now time.Time) time.Time {
	switch r {
	case DateRangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case DateRangeWeek:
		return now.AddDate(0, 0, -7)
	case DateRangeMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// LogFilter represents the criteria applied to the log list. Nil pointers
// and empty strings mean the criterion is inactive.
type LogFilter struct {
	Search    string       `json:"search,omitempty"`
	Category  *LogCategory `json:"category,omitempty"`
	Severity  *LogSeverity `json:"severity,omitempty"`
	UserID    *string      `json:"user_id,omitempty"`
	Status    *LogStatus   `json:"status,omitempty"`
	DateRange DateRange    `json:"date_range,omitempty"`
}

// IsZero reports whether no criterion is active
func (f LogFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.Category == nil &&
		f.Severity == nil &&
		f.UserID == nil &&
		f.Status == nil &&
		(f.DateRange == "" || f.DateRange == DateRangeAll)
}

// SortField names the record field used for ordering
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByUser      SortField = "user"
	SortByAction    SortField = "action"
	SortByCategory  SortField = "category"
	SortBySeverity  SortField = "severity"
	SortByStatus    SortField = "status"
)

// Valid reports whether f is a known sort field
func (f SortField) Valid() bool {
	switch f {
	case SortByTimestamp, SortByUser, SortByAction, SortByCategory, SortBySeverity, SortByStatus:
		return true
	}
	return false
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec represents a single-key sort
type SortSpec struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort orders records newest first
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByTimestamp, Order: SortDesc}
}

// ParseCategory validates a raw category value
func ParseCategory(raw string) (LogCategory, error) {
	c := LogCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// ParseSeverity validates a raw severity value
func ParseSeverity(raw string) (LogSeverity, error) {
	s := LogSeverity(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidSeverity
	}
	return s, nil
}

// ParseStatus validates a raw status value
func ParseStatus(raw string) (LogStatus, error) {
	s := LogStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ParseDateRange validates a raw date range value
func ParseDateRange(raw string) (DateRange, error) {
	r := DateRange(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", ErrInvalidDateRange
	}
	if r == "" {
		return DateRangeAll, nil
	}
	return r, nil
}

// ParseSort validates raw sort field and order values. Empty values fall
// back to DefaultSort.
func ParseSort(field, order string) (SortSpec, error) {
	spec := DefaultSort()
	if field != "" {
		spec.Field = SortField(strings.ToLower(field))
		if !spec.Field.Valid() {
			return SortSpec{}, ErrInvalidSortField
		}
	}
	if order != "" {
		spec.Order = SortOrder(strings.ToLower(order))
		if spec.Order != SortAsc && spec.Order != SortDesc {
			return SortSpec{}, ErrInvalidSortOrder
		}
	}
	return spec, nil
}
