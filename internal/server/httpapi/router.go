// Package httpapi is the JSON-over-HTTP transport of the service.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps groups the dependencies of NewRouter. RateLimiter, Metrics and
// MetricsHandler are optional.
type RouterDeps struct {
	Users          UserService
	Gate           Authenticator
	Logger         logging.Logger
	RateLimiter    *RateLimiter
	Metrics        Recorder
	MetricsHandler http.Handler
}

// NewRouter builds the HTTP API.
//
// Middleware order: RequestID → access log → recovery, then per route group
// the rate limiter or requireAuth → requireAdmin.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger.With("module", "httpapi")
	rec := deps.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}

	h := &handler{users: deps.Users, logger: logger}
	authenticated := requireAuth(deps.Gate, rec, logger)
	admin := requireAdmin(deps.Gate, rec, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(accessLog(logger, rec))
	r.Use(recovery(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware)
			}
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/logout", h.logout)
			r.Get("/status", h.status)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticated, admin)
			r.Post("/", h.addUser)
			r.Patch("/{id}", h.updateUser)
		})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
