package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/ports"
)

const (
	logColumns = `id, ts, user_id, user_name, user_role, action, category, severity, description, status, details`

	// Parameters per inserted row, one per logColumns entry.
	paramsPerRow = 11

	// Keeps a single INSERT well under Postgres' 65535 bind parameter limit.
	insertBatchSize = 500

	undefinedTable = "42P01"
)

// ErrSchemaMissing is returned when the system_logs table does not exist
var ErrSchemaMissing = errors.New("system_logs table missing, run with -migrate")

// PostgresLogRepository implements LogRepository using PostgreSQL
type PostgresLogRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

var _ ports.LogRepository = (*PostgresLogRepository)(nil)

// NewPostgresLogRepository creates a new PostgreSQL log repository. Each
// call is bounded by queryTimeout; zero leaves the caller's deadline alone.
func NewPostgresLogRepository(db *sql.DB, queryTimeout time.Duration) *PostgresLogRepository {
	return &PostgresLogRepository{db: db, queryTimeout: queryTimeout}
}

func (r *PostgresLogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// Append inserts records in batches inside one transaction. Records whose
// ID already exists are skipped.
func (r *PostgresLogRepository) Append(ctx context.Context, records ...domain.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))

		query, args, err := buildInsert(records[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert logs: %w", mapPQError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit logs: %w", err)
	}
	return nil
}

// buildInsert renders one multi-row INSERT for records
func buildInsert(records []domain.LogRecord) (string, []interface{}, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO system_logs (")
	b.WriteString(logColumns)
	b.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(records)*paramsPerRow)
	argIndex := 1

	for i, rec := range records {
		details, err := json.Marshal(rec.Details)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal details of %s: %w", rec.ID, err)
		}

		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := 0; j < paramsPerRow; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", argIndex)
			argIndex++
		}
		b.WriteString(")")

		args = append(args,
			rec.ID,
			rec.Timestamp,
			rec.UserID,
			rec.UserName,
			rec.UserRole,
			rec.Action,
			string(rec.Category),
			string(rec.Severity),
			rec.Description,
			string(rec.Status),
			details,
		)
	}

	b.WriteString(" ON CONFLICT (id) DO NOTHING")
	return b.String(), args, nil
}

// All returns every record, newest first
func (r *PostgresLogRepository) All(ctx context.Context) ([]domain.LogRecord, error) {
	query := `SELECT ` + logColumns + ` FROM system_logs ORDER BY ts DESC, id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", mapPQError(err))
	}
	defer rows.Close()

	var records []domain.LogRecord
	for rows.Next() {
		rec, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate logs: %w", err)
	}

	return records, nil
}

// FindByID retrieves a record by its ID
func (r *PostgresLogRepository) FindByID(ctx context.Context, id string) (*domain.LogRecord, error) {
	query := `SELECT ` + logColumns + ` FROM system_logs WHERE id = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rec, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Count returns the number of stored records
func (r *PostgresLogRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM system_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", mapPQError(err))
	}
	return n, nil
}

// Trim deletes everything older than the keep most recent records
func (r *PostgresLogRepository) Trim(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	query := `
		DELETE FROM system_logs
		WHERE id IN (
			SELECT id FROM system_logs
			ORDER BY ts DESC, id
			OFFSET $1
		)
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim logs: %w", mapPQError(err))
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(removed), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLog(s scanner) (*domain.LogRecord, error) {
	var (
		rec         domain.LogRecord
		detailsJSON []byte
	)

	err := s.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.UserID,
		&rec.UserName,
		&rec.UserRole,
		&rec.Action,
		&rec.Category,
		&rec.Severity,
		&rec.Description,
		&rec.Status,
		&detailsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan log: %w", mapPQError(err))
	}

	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &rec.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details of %s: %w", rec.ID, err)
		}
	}

	return &rec, nil
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pqErr.Message)
	}
	return err
}
