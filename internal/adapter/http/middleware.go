package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fixora/backoffice/internal/adapter/http/response"
	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/i18n"
	"github.com/fixora/backoffice/internal/infra/logger"
	"github.com/fixora/backoffice/internal/infra/ratelimit"
	"github.com/fixora/backoffice/internal/ports"
	apperror "github.com/fixora/backoffice/pkg/error"
)

const CorrelationIDHeader = "X-Correlation-ID"

type claimsKey struct{}

// ClaimsFromContext returns the authenticated staff member, if any
func ClaimsFromContext(ctx context.Context) *ports.TokenClaims {
	claims, _ := ctx.Value(claimsKey{}).(*ports.TokenClaims)
	return claims
}

// correlationMiddleware ensures every request/response carries a correlation ID
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, cid)
		next.ServeHTTP(w, r.WithContext(logger.WithCorrelationID(r.Context(), cid)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += n
	return n, err
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"bytes":       rec.bytes,
				"remote_addr": clientIP(r),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if rec.status >= http.StatusInternalServerError {
				log.Warn(r.Context(), "HTTP request failed", fields)
				return
			}
			log.Info(r.Context(), "HTTP request", fields)
		})
	}
}

func recoveryMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "Panic recovered", fmt.Errorf("%v", rec), map[string]interface{}{
						"path":  r.URL.Path,
						"stack": string(debug.Stack()),
					})
					response.AppError(w, apperror.ErrInternalServer, "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows the listed origins; "*" allows any origin
func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if origin != "" {
				if _, ok := allowed[origin]; ok || allowAll {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Expose-Headers", "X-Correlation-ID, X-Export-Message, Content-Disposition")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language, X-Correlation-ID")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateRule is a request budget per client per window
type RateRule struct {
	Limit  int
	Window time.Duration
}

// RateLimiter throttles clients per route group
type RateLimiter struct {
	service    ports.RateLimitService
	translator *i18n.Translator
	logger     logger.Logger
	general    RateRule
	export     RateRule
	loadMore   RateRule
	block      time.Duration
}

// NewRateLimiter creates a limiter; export and load-more get their own
// tighter budgets
func NewRateLimiter(service ports.RateLimitService, translator *i18n.Translator, log logger.Logger, general, export, loadMore RateRule, block time.Duration) *RateLimiter {
	return &RateLimiter{
		service:    service,
		translator: translator,
		logger:     log,
		general:    general,
		export:     export,
		loadMore:   loadMore,
		block:      block,
	}
}

func (l *RateLimiter) rule(path string) (string, RateRule) {
	switch {
	case strings.HasSuffix(path, "/export"):
		return "export", l.export
	case strings.HasSuffix(path, "/load-more"):
		return "load_more", l.loadMore
	default:
		return "general", l.general
	}
}

// Middleware enforces the limits. Limiter backend errors let the request
// through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.service == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := clientIP(r)
		group, rule := l.rule(r.URL.Path)
		key := ratelimit.ClientKey(group, ip)

		blocked, err := l.service.IsBlocked(ctx, key)
		if err != nil {
			l.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		}
		if blocked {
			l.reject(w, r)
			return
		}

		allowed, err := l.service.CheckLimit(ctx, key, rule.Limit, rule.Window)
		if err != nil {
			l.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"key": key})
			allowed = true
		}
		if !allowed {
			if err := l.service.Block(ctx, key, l.block, "Rate limit exceeded"); err != nil {
				l.logger.Error(ctx, "Failed to block client", err, map[string]interface{}{"key": key})
			}
			logger.LogSecurityEvent(ctx, l.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip":    ip,
				"path":  r.URL.Path,
				"group": group,
			})
			l.reject(w, r)
			return
		}

		if err := l.service.Increment(ctx, key, rule.Window); err != nil {
			l.logger.Error(ctx, "Failed to increment rate limit", err, map[string]interface{}{"key": key})
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.block.Seconds())))
	response.AppError(w, apperror.ErrTooManyRequests, translate(l.translator, r, i18n.TooManyRequests))
}

// AuthMiddleware requires an admin bearer token
type AuthMiddleware struct {
	tokenService ports.TokenService
	translator   *i18n.Translator
	logger       logger.Logger
}

func NewAuthMiddleware(tokenService ports.TokenService, translator *i18n.Translator, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService, translator: translator, logger: log}
}

// RequireAdmin rejects requests without a valid admin or super admin token
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorized(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			m.unauthorized(w, r)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.LogSecurityEvent(r.Context(), m.logger, "invalid_token", "MEDIUM", map[string]interface{}{
				"ip":   clientIP(r),
				"path": r.URL.Path,
			})
			m.unauthorized(w, r)
			return
		}

		if claims.Role != domain.RoleAdmin && claims.Role != domain.RoleSuperAdmin {
			response.AppError(w, apperror.ErrForbidden, translate(m.translator, r, i18n.Forbidden))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.AppError(w, apperror.ErrUnauthorized, translate(m.translator, r, i18n.Unauthorized))
}

// translate returns "" without a translator so the AppError default is used
func translate(t *i18n.Translator, r *http.Request, key string) string {
	if t == nil {
		return ""
	}
	return t.T(r.Header.Get("Accept-Language"), key)
}

// clientIP extracts the client address, preferring proxy headers
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
