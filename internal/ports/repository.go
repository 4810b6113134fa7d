package ports

import (
	"context"

	"github.com/fixora/backoffice/internal/domain"
)

// LogRepository defines the interface for system log persistence
type LogRepository interface {
	// Append stores new records
	Append(ctx context.Context, records ...domain.LogRecord) error

	// All returns every stored record, newest first
	All(ctx context.Context) ([]domain.LogRecord, error)

	// FindByID retrieves a record by its ID
	FindByID(ctx context.Context, id string) (*domain.LogRecord, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int, error)

	// Trim keeps only the keep most recent records and returns how many
	// were removed
	Trim(ctx context.Context, keep int) (int, error)
}
