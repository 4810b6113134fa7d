package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/view"
)

// ViewPatch changes a view's controls. Nil fields are left alone; for the
// select filters an empty string or "all" clears the criterion.
type ViewPatch struct {
	Clear       bool    `json:"clear"`
	Search      *string `json:"search"`
	FlushSearch bool    `json:"flush_search"`
	Category    *string `json:"category"`
	Severity    *string `json:"severity"`
	User        *string `json:"user"`
	Status      *string `json:"status"`
	DateRange   *string `json:"date_range"`
	SortBy      *string `json:"sort_by"`
	SortOrder   *string `json:"sort_order"`
	PageSize    *int    `json:"page_size"`
	Page        *int    `json:"page"`
}

// parsedPatch holds a validated patch so nothing is applied on a bad request
type parsedPatch struct {
	category  **domain.LogCategory
	severity  **domain.LogSeverity
	user      **string
	status    **domain.LogStatus
	dateRange *domain.DateRange
	sort      *domain.SortSpec
}

func isClear(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || strings.EqualFold(raw, "all")
}

func (p ViewPatch) parse(current domain.SortSpec) (*parsedPatch, error) {
	out := &parsedPatch{}

	if p.Category != nil {
		var c *domain.LogCategory
		if !isClear(*p.Category) {
			v, err := domain.ParseCategory(*p.Category)
			if err != nil {
				return nil, err
			}
			c = &v
		}
		out.category = &c
	}

	if p.Severity != nil {
		var s *domain.LogSeverity
		if !isClear(*p.Severity) {
			v, err := domain.ParseSeverity(*p.Severity)
			if err != nil {
				return nil, err
			}
			s = &v
		}
		out.severity = &s
	}

	if p.User != nil {
		var u *string
		if !isClear(*p.User) {
			v := strings.TrimSpace(*p.User)
			u = &v
		}
		out.user = &u
	}

	if p.Status != nil {
		var s *domain.LogStatus
		if !isClear(*p.Status) {
			v, err := domain.ParseStatus(*p.Status)
			if err != nil {
				return nil, err
			}
			s = &v
		}
		out.status = &s
	}

	if p.DateRange != nil {
		r, err := domain.ParseDateRange(*p.DateRange)
		if err != nil {
			return nil, err
		}
		out.dateRange = &r
	}

	if p.SortBy != nil || p.SortOrder != nil {
		field, order := string(current.Field), string(current.Order)
		if p.SortBy != nil {
			field = *p.SortBy
		}
		if p.SortOrder != nil {
			order = *p.SortOrder
		}
		spec, err := domain.ParseSort(field, order)
		if err != nil {
			return nil, err
		}
		out.sort = &spec
	}

	return out, nil
}

// CreateView opens a view session and renders its first page
func (uc *SystemLogUseCase) CreateView(ctx context.Context) (*view.Result, error) {
	v := uc.views.Create()
	uc.logger.Debug(ctx, "View opened", map[string]interface{}{"view_id": v.ID()})
	return uc.render(ctx, v)
}

// GetView renders a view's current state
func (uc *SystemLogUseCase) GetView(ctx context.Context, id string) (*view.Result, error) {
	v, err := uc.views.Get(id)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, v)
}

// UpdateView applies patch to a view and renders the result. The patch is
// validated in full before any control changes.
func (uc *SystemLogUseCase) UpdateView(ctx context.Context, id string, patch ViewPatch) (*view.Result, error) {
	v, err := uc.views.Get(id)
	if err != nil {
		return nil, err
	}

	parsed, err := patch.parse(v.State().Sort)
	if err != nil {
		return nil, err
	}

	if patch.Clear {
		v.ClearFilters()
	}
	if patch.Search != nil {
		v.SetSearch(*patch.Search)
	}
	if patch.FlushSearch {
		v.FlushSearch()
	}
	if parsed.category != nil {
		v.SetCategory(*parsed.category)
	}
	if parsed.severity != nil {
		v.SetSeverity(*parsed.severity)
	}
	if parsed.user != nil {
		v.SetUser(*parsed.user)
	}
	if parsed.status != nil {
		v.SetStatus(*parsed.status)
	}
	if parsed.dateRange != nil {
		v.SetDateRange(*parsed.dateRange)
	}
	if parsed.sort != nil {
		v.SetSort(*parsed.sort)
	}
	if patch.PageSize != nil {
		v.SetPageSize(*patch.PageSize)
	}
	if patch.Page != nil {
		v.SetPage(*patch.Page)
	}

	return uc.render(ctx, v)
}

// CloseView ends a view session
func (uc *SystemLogUseCase) CloseView(ctx context.Context, id string) error {
	if err := uc.views.Remove(id); err != nil {
		return err
	}
	uc.logger.Debug(ctx, "View closed", map[string]interface{}{"view_id": id})
	return nil
}

func (uc *SystemLogUseCase) render(ctx context.Context, v *view.LogView) (*view.Result, error) {
	records, err := uc.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render view: %w", err)
	}
	res := v.Render(records)
	return &res, nil
}
