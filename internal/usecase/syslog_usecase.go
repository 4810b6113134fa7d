package usecase

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/export"
	"github.com/fixora/backoffice/internal/infra/logger"
	"github.com/fixora/backoffice/internal/mockdata"
	"github.com/fixora/backoffice/internal/ports"
	"github.com/fixora/backoffice/internal/query"
	"github.com/fixora/backoffice/internal/view"
)

// SystemLogConfig holds the tunables of the log pipeline
type SystemLogConfig struct {
	Capacity        int
	LoadMoreBatch   int
	ExportChunkSize int
	CleanupInterval time.Duration
	ViewIdleTimeout time.Duration
}

// ListRequest represents a one-shot filtered page query
type ListRequest struct {
	Filter   domain.LogFilter
	Sort     domain.SortSpec
	Page     int
	PageSize int
}

// ListResult is a page of logs with statistics over the whole filtered set
type ListResult struct {
	Page  query.Page           `json:"page"`
	Stats *domain.LogStats     `json:"stats"`
	Users []domain.UserSummary `json:"users"`
}

// LoadMoreResult reports the outcome of a load-more batch
type LoadMoreResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// ExportRequest selects what to export
type ExportRequest struct {
	Filter  domain.LogFilter
	Sort    domain.SortSpec
	Columns []string
}

// ExportResult describes a finished export
type ExportResult struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
}

// SystemLogUseCase handles the system log screen's business logic
type SystemLogUseCase struct {
	repo      ports.LogRepository
	generator *mockdata.Generator
	source    mockdata.Source
	views     *view.Registry
	exporter  *export.Exporter
	logger    logger.Logger
	now       func() time.Time
	config    SystemLogConfig
	loading   atomic.Bool
}

// NewSystemLogUseCase creates a new system log use case
func NewSystemLogUseCase(
	repo ports.LogRepository,
	generator *mockdata.Generator,
	source mockdata.Source,
	views *view.Registry,
	log logger.Logger,
	config SystemLogConfig,
	now func() time.Time,
) *SystemLogUseCase {
	if now == nil {
		now = time.Now
	}
	return &SystemLogUseCase{
		repo:      repo,
		generator: generator,
		source:    source,
		views:     views,
		exporter:  export.NewExporter(config.ExportChunkSize),
		logger:    log.WithFields(map[string]interface{}{"component": "system_logs"}),
		now:       now,
		config:    config,
	}
}

// Seed generates n records spread over the last 30 days and stores them
func (uc *SystemLogUseCase) Seed(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	records := uc.generator.Generate(n, uc.now())
	if err := uc.repo.Append(ctx, records...); err != nil {
		return fmt.Errorf("failed to seed logs: %w", err)
	}

	uc.logger.Info(ctx, "Seeded system logs", map[string]interface{}{"count": n})
	return nil
}

// ListLogs filters, sorts and paginates the stored logs
func (uc *SystemLogUseCase) ListLogs(ctx context.Context, req ListRequest) (*ListResult, error) {
	records, err := uc.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	now := uc.now()
	filtered := query.Apply(records, req.Filter, req.Sort, now)

	return &ListResult{
		Page:  query.Paginate(filtered, req.Page, req.PageSize),
		Stats: domain.NewLogStats(filtered, now),
		Users: domain.UniqueUsers(records),
	}, nil
}

// GetLog retrieves a single log for the detail view
func (uc *SystemLogUseCase) GetLog(ctx context.Context, id string) (*domain.LogRecord, error) {
	if id == "" {
		return nil, domain.ErrLogNotFound
	}

	record, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return record, nil
}

// Stats computes statistics over the logs matching filter
func (uc *SystemLogUseCase) Stats(ctx context.Context, filter domain.LogFilter) (*domain.LogStats, error) {
	records, err := uc.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	now := uc.now()
	return domain.NewLogStats(query.Filter(records, filter, now), now), nil
}

// Users returns the distinct actors across all stored logs
func (uc *SystemLogUseCase) Users(ctx context.Context) ([]domain.UserSummary, error) {
	records, err := uc.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return domain.UniqueUsers(records), nil
}

// LoadMore fetches one batch from the source and stores it. Only one load
// runs at a time; concurrent callers get ErrLoadInProgress.
func (uc *SystemLogUseCase) LoadMore(ctx context.Context) (*LoadMoreResult, error) {
	if !uc.loading.CompareAndSwap(false, true) {
		return nil, domain.ErrLoadInProgress
	}
	defer uc.loading.Store(false)

	start := time.Now()

	batch, err := uc.source.Fetch(ctx, uc.config.LoadMoreBatch)
	if err != nil {
		uc.logger.Error(ctx, "Failed to fetch more logs", err, nil)
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}

	if err := uc.repo.Append(ctx, batch...); err != nil {
		return nil, fmt.Errorf("failed to store logs: %w", err)
	}

	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count logs: %w", err)
	}

	logger.LogPerformance(ctx, uc.logger, "load_more", time.Since(start), map[string]interface{}{
		"added": len(batch),
		"total": total,
	})

	return &LoadMoreResult{Added: len(batch), Total: total}, nil
}

// Loading reports whether a load-more batch is in flight
func (uc *SystemLogUseCase) Loading() bool {
	return uc.loading.Load()
}

// Export writes the filtered, sorted logs to w as CSV. Column errors are
// returned as is; anything that fails during writing is wrapped in
// ErrExportFailed.
func (uc *SystemLogUseCase) Export(ctx context.Context, w io.Writer, req ExportRequest) (*ExportResult, error) {
	columns, err := export.SelectColumns(req.Columns)
	if err != nil {
		return nil, err
	}

	records, err := uc.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	now := uc.now()
	filtered := query.Apply(records, req.Filter, req.Sort, now)

	start := time.Now()
	rows, err := uc.exporter.Write(w, filtered, columns)
	if err != nil {
		uc.logger.Error(ctx, "Export failed", err, map[string]interface{}{"rows_written": rows})
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	logger.LogPerformance(ctx, uc.logger, "export", time.Since(start), map[string]interface{}{
		"rows":    rows,
		"columns": len(columns),
	})

	return &ExportResult{Filename: export.Filename(now), Rows: rows}, nil
}

// Cleanup trims the repository to capacity and closes idle views
func (uc *SystemLogUseCase) Cleanup(ctx context.Context) error {
	removed, err := uc.repo.Trim(ctx, uc.config.Capacity)
	if err != nil {
		return fmt.Errorf("failed to trim logs: %w", err)
	}

	expired := 0
	if uc.views != nil && uc.config.ViewIdleTimeout > 0 {
		expired = uc.views.Expire(uc.config.ViewIdleTimeout)
	}

	if removed > 0 || expired > 0 {
		uc.logger.Info(ctx, "Retention sweep", map[string]interface{}{
			"removed_logs":  removed,
			"expired_views": expired,
			"capacity":      uc.config.Capacity,
		})
	}
	return nil
}

// StartRetention runs Cleanup every CleanupInterval until ctx is done
func (uc *SystemLogUseCase) StartRetention(ctx context.Context) {
	interval := uc.config.CleanupInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.Cleanup(ctx); err != nil {
				uc.logger.Error(ctx, "Retention sweep failed", err, nil)
			}
		}
	}
}
