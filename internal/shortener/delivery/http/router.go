package http

import (
	"net/http"

	"linker/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter creates a new Chi router with all middleware and routes
func NewRouter(handler *Handler, logger *zap.Logger, rateLimiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// Forwarded headers are client-controlled unless a proxy rewrites them,
	// and the rate limiter keys on the resulting address.
	if handler.opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, problemdetails.New(
			http.StatusNotFound,
			problemdetails.TypeNotFound,
			"Not Found",
			"No route for "+r.URL.Path,
		).WithInstance(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, problemdetails.New(
			http.StatusMethodNotAllowed,
			problemdetails.TypeMethodNotAllowed,
			"Method Not Allowed",
			r.Method+" is not supported on "+r.URL.Path,
		).WithInstance(r.URL.Path))
	})

	// Probes are never rate limited
	r.Get("/healthz", handler.Healthz)
	r.Get("/readyz", handler.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(rateLimiter.Middleware)

		// Root-level redirect route
		r.Get("/{alias}", handler.Redirect)

		r.Route("/api/shorten", func(r chi.Router) {
			r.Use(CORS(handler.opts.AllowedOrigin))
			r.Post("/", handler.Shorten)
			r.Options("/", handler.Preflight)
			r.Get("/{alias}", handler.GetLink)
		})
	})

	return r
}
