package domain

// Custom errors
var (
	ErrLogNotFound      = NewDomainError("log not found")
	ErrInvalidCategory  = NewDomainError("invalid category")
	ErrInvalidSeverity  = NewDomainError("invalid severity")
	ErrInvalidStatus    = NewDomainError("invalid status")
	ErrInvalidDateRange = NewDomainError("invalid date range")
	ErrInvalidSortField = NewDomainError("invalid sort field")
	ErrInvalidSortOrder = NewDomainError("invalid sort order")
	ErrInvalidColumn    = NewDomainError("invalid export column")
	ErrLoadInProgress   = NewDomainError("load already in progress")
	ErrViewNotFound     = NewDomainError("view not found")
	ErrExportFailed     = NewDomainError("export failed")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}
