package error

import (
	"errors"
	"net/http"

	"github.com/fixora/backoffice/internal/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest      = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized    = &AppError{Code: "UNAUTHORIZED", Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden       = &AppError{Code: "FORBIDDEN", Message: "Forbidden", Status: http.StatusForbidden}
	ErrNotFound        = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer  = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
	ErrTooManyRequests = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many requests", Status: http.StatusTooManyRequests}
)

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

var domainErrors = []struct {
	err    error
	code   string
	status int
}{
	{domain.ErrLogNotFound, "LOG_NOT_FOUND", http.StatusNotFound},
	{domain.ErrViewNotFound, "VIEW_NOT_FOUND", http.StatusNotFound},
	{domain.ErrInvalidCategory, "INVALID_CATEGORY", http.StatusBadRequest},
	{domain.ErrInvalidSeverity, "INVALID_SEVERITY", http.StatusBadRequest},
	{domain.ErrInvalidStatus, "INVALID_STATUS", http.StatusBadRequest},
	{domain.ErrInvalidDateRange, "INVALID_DATE_RANGE", http.StatusBadRequest},
	{domain.ErrInvalidSortField, "INVALID_SORT_FIELD", http.StatusBadRequest},
	{domain.ErrInvalidSortOrder, "INVALID_SORT_ORDER", http.StatusBadRequest},
	{domain.ErrInvalidColumn, "INVALID_COLUMN", http.StatusBadRequest},
	{domain.ErrLoadInProgress, "LOAD_IN_PROGRESS", http.StatusConflict},
	{domain.ErrExportFailed, "EXPORT_FAILED", http.StatusInternalServerError},
}

// MapError converts an error returned by the use case layer into an AppError
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return &AppError{Code: de.code, Message: de.err.Error(), Status: de.status}
		}
	}

	return NewInternalServer("An unexpected error occurred")
}
