package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fixora/backoffice/internal/adapter/http/response"
	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/i18n"
	"github.com/fixora/backoffice/internal/infra/logger"
	"github.com/fixora/backoffice/internal/query"
	"github.com/fixora/backoffice/internal/usecase"
	"github.com/fixora/backoffice/internal/view"
	apperror "github.com/fixora/backoffice/pkg/error"
)

// SystemLogService defines the behavior the handler depends on
type SystemLogService interface {
	ListLogs(ctx context.Context, req usecase.ListRequest) (*usecase.ListResult, error)
	GetLog(ctx context.Context, id string) (*domain.LogRecord, error)
	Stats(ctx context.Context, filter domain.LogFilter) (*domain.LogStats, error)
	Users(ctx context.Context) ([]domain.UserSummary, error)
	LoadMore(ctx context.Context) (*usecase.LoadMoreResult, error)
	Export(ctx context.Context, w io.Writer, req usecase.ExportRequest) (*usecase.ExportResult, error)
	CreateView(ctx context.Context) (*view.Result, error)
	GetView(ctx context.Context, id string) (*view.Result, error)
	UpdateView(ctx context.Context, id string, patch usecase.ViewPatch) (*view.Result, error)
	CloseView(ctx context.Context, id string) error
}

const (
	ExportMessageHeader = "X-Export-Message"
	ExportRowsHeader    = "X-Export-Rows"
)

// SystemLogHandler handles HTTP requests for the system log screen
type SystemLogHandler struct {
	service    SystemLogService
	translator *i18n.Translator
	logger     logger.Logger
}

// NewSystemLogHandler creates a new system log handler
func NewSystemLogHandler(service SystemLogService, translator *i18n.Translator, log logger.Logger) *SystemLogHandler {
	return &SystemLogHandler{
		service:    service,
		translator: translator,
		logger:     log,
	}
}

// RegisterRoutes registers system log routes. Fixed paths go before
// /{id} so they are not captured as IDs.
func (h *SystemLogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/system-logs", h.ListLogs).Methods("GET")
	router.HandleFunc("/api/v1/system-logs/stats", h.Stats).Methods("GET")
	router.HandleFunc("/api/v1/system-logs/users", h.Users).Methods("GET")
	router.HandleFunc("/api/v1/system-logs/export", h.Export).Methods("GET")
	router.HandleFunc("/api/v1/system-logs/load-more", h.LoadMore).Methods("POST")

	router.HandleFunc("/api/v1/system-logs/views", h.CreateView).Methods("POST")
	router.HandleFunc("/api/v1/system-logs/views/{id}", h.GetView).Methods("GET")
	router.HandleFunc("/api/v1/system-logs/views/{id}", h.UpdateView).Methods("PATCH")
	router.HandleFunc("/api/v1/system-logs/views/{id}", h.CloseView).Methods("DELETE")

	router.HandleFunc("/api/v1/system-logs/{id}", h.GetLog).Methods("GET")
}

// ListLogs handles the filtered, paginated list
func (h *SystemLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseFilter(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sort, err := domain.ParseSort(q.Get("sort_by"), q.Get("sort_order"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.ListLogs(r.Context(), usecase.ListRequest{
		Filter:   filter,
		Sort:     sort,
		Page:     atoiDefault(q.Get("page"), 1),
		PageSize: query.ClampPageSize(atoiDefault(q.Get("page_size"), 0)),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ListSuccess), result)
}

// GetLog handles the detail view
func (h *SystemLogHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.service.GetLog(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.DetailSuccess), record)
}

// Stats handles statistics over a filter
func (h *SystemLogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ListSuccess), stats)
}

// Users handles the actor dropdown source
func (h *SystemLogHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ListSuccess), users)
}

// LoadMore fetches one more batch of logs
func (h *SystemLogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.LoadMore(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.LoadMoreSuccess, result.Added), result)
}

// Export streams the filtered logs as a CSV download
func (h *SystemLogHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseFilter(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sort, err := domain.ParseSort(q.Get("sort_by"), q.Get("sort_order"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// Rendered into memory first so a failure can still be reported as JSON.
	var buf bytes.Buffer
	result, err := h.service.Export(r.Context(), &buf, usecase.ExportRequest{
		Filter:  filter,
		Sort:    sort,
		Columns: splitList(q.Get("columns")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields := map[string]interface{}{"filename": result.Filename, "rows": result.Rows}
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		fields["actor_id"] = claims.UserID
		fields["actor_role"] = claims.Role
	}
	h.logger.Info(r.Context(), "System logs exported", fields)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set(ExportRowsHeader, strconv.Itoa(result.Rows))
	w.Header().Set(ExportMessageHeader, mime.QEncoding.Encode("utf-8", h.t(r, i18n.ExportSuccess, result.Rows)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error(r.Context(), "Failed to send export", err, map[string]interface{}{"filename": result.Filename})
	}
}

// CreateView opens a view session
func (h *SystemLogHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CreateView(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, h.t(r, i18n.ViewCreated), result)
}

// GetView renders a view session
func (h *SystemLogHandler) GetView(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ListSuccess), result)
}

// UpdateView changes a view session's controls
func (h *SystemLogHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	var patch usecase.ViewPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.AppError(w, apperror.ErrBadRequest, h.t(r, i18n.InvalidParameter))
		return
	}

	result, err := h.service.UpdateView(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ViewUpdated), result)
}

// CloseView ends a view session
func (h *SystemLogHandler) CloseView(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseView(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, h.t(r, i18n.ViewClosed), nil)
}

// messageKeys picks translated messages for errors the UI shows as toasts
var messageKeys = map[error]string{
	domain.ErrLogNotFound:    i18n.NotFound,
	domain.ErrLoadInProgress: i18n.LoadMoreBusy,
	domain.ErrExportFailed:   i18n.ExportFailed,
}

func (h *SystemLogHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.MapError(err)

	message := appErr.Message
	for target, key := range messageKeys {
		if errors.Is(err, target) {
			message = h.t(r, key)
			break
		}
	}

	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "Request failed", err, map[string]interface{}{"path": r.URL.Path})
		if message == appErr.Message {
			message = h.t(r, i18n.InternalError)
		}
	}

	response.AppError(w, appErr, message)
}

func (h *SystemLogHandler) t(r *http.Request, key string, args ...interface{}) string {
	return h.translator.T(r.Header.Get("Accept-Language"), key, args...)
}

// parseFilter reads the filter controls from query parameters. An empty
// value or "all" leaves a select filter inactive.
func parseFilter(q url.Values) (domain.LogFilter, error) {
	filter := domain.LogFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		DateRange: domain.DateRangeAll,
	}

	if raw := q.Get("category"); !isAll(raw) {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if raw := q.Get("severity"); !isAll(raw) {
		s, err := domain.ParseSeverity(raw)
		if err != nil {
			return filter, err
		}
		filter.Severity = &s
	}
	if raw := q.Get("user"); !isAll(raw) {
		u := strings.TrimSpace(raw)
		filter.UserID = &u
	}
	if raw := q.Get("status"); !isAll(raw) {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &s
	}

	dr, err := domain.ParseDateRange(q.Get("date_range"))
	if err != nil {
		return filter, err
	}
	filter.DateRange = dr

	return filter, nil
}

func isAll(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || strings.EqualFold(raw, "all")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoiDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
