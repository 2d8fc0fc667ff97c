package httpapi

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/gate"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Authenticator is implemented by *gate.Gate.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
	RequireAdmin(user *models.User) error
}

// Recorder receives per-request metrics. *metrics.Collector implements it.
type Recorder interface {
	RecordHTTPRequest(method, route string, statusCode int, d time.Duration)
	RecordGateRejection(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}
func (nopRecorder) RecordGateRejection(string)                           {}

// statusRecorder wraps http.ResponseWriter and remembers the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// accessInfo is filled in by inner middleware so the access log can report
// who made the request.
type accessInfo struct {
	userID string
}

type accessInfoKey struct{}

func accessInfoFrom(ctx context.Context) *accessInfo {
	info, _ := ctx.Value(accessInfoKey{}).(*accessInfo)
	return info
}

// unmatchedRoute labels requests no route matched. The raw path is only logged.
const unmatchedRoute = "unmatched"

// accessLog writes one structured line per request with method, path, route,
// status, duration_ms, request_id and, once authenticated, user_id. It also
// feeds the request metrics.
func accessLog(logger logging.Logger, rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &accessInfo{}
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r.WithContext(context.WithValue(r.Context(), accessInfoKey{}, info)))

			elapsed := time.Since(start)
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			rec.RecordHTTPRequest(r.Method, route, sr.statusCode, elapsed)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", sr.statusCode,
				"duration_ms", float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}
			if info.userID != "" {
				args = append(args, "user_id", info.userID)
			}

			switch {
			case sr.statusCode >= 500:
				logger.Error(r.Context(), "http_request", args...)
			case sr.statusCode >= 400:
				logger.Warn(r.Context(), "http_request", args...)
			default:
				logger.Info(r.Context(), "http_request", args...)
			}
		})
	}
}

// recovery turns a handler panic into a 500 response.
func recovery(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error(r.Context(), "panic recovered",
						"panic", p,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeFail(w, http.StatusInternalServerError, common.MsgInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth runs the gate on the Authorization header and stores the
// resolved user in the request context.
func requireAuth(g Authenticator, rec Recorder, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := gate.BearerToken(r.Header.Get(common.AuthorizationHeaderName))

			user, err := g.Authenticate(r.Context(), token)
			if err != nil {
				reject(w, r, err, rec, logger)
				return
			}

			if info := accessInfoFrom(r.Context()); info != nil {
				info.userID = user.ID
			}
			next.ServeHTTP(w, r.WithContext(gate.WithUser(r.Context(), user)))
		})
	}
}

// requireAdmin must run after requireAuth.
func requireAdmin(g Authenticator, rec Recorder, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := gate.UserFromContext(r.Context())
			if err := g.RequireAdmin(user); err != nil {
				reject(w, r, err, rec, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, err error, rec Recorder, logger logging.Logger) {
	if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrInsufficientPrivilege) {
		reason := gate.Reason(err)
		rec.RecordGateRejection(reason)
		logger.Debug(r.Context(), "request rejected by gate", "path", r.URL.Path, "reason", reason)
	} else {
		logger.Error(r.Context(), "gate failed", "path", r.URL.Path, "error", err)
	}
	code, msg := statusFor(err)
	writeFail(w, code, msg)
}
