package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/usecase"
	"linker/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	maxRequestBodyBytes = 1 << 20
	readinessTimeout    = 2 * time.Second
)

// Options configures the HTTP boundary.
type Options struct {
	// BaseURL is the public origin used in short URLs, e.g. "https://lnk.example".
	// When empty the origin is derived from the request Host.
	BaseURL string
	Mode    domain.Mode
	// AllowedOrigin is the Access-Control-Allow-Origin value for the API.
	AllowedOrigin string
	// TrustProxy mounts RealIP so forwarded headers name the client.
	TrustProxy bool
}

// Handler handles HTTP requests for short link operations
type Handler struct {
	service *usecase.LinkService
	opts    Options
	logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(service *usecase.LinkService, opts Options, logger *zap.Logger) *Handler {
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Handler{
		service: service,
		opts:    opts,
		logger:  logger,
	}
}

// ShortenRequest represents the request body for creating a short link.
// CustomAlias is nil when the field is absent or null.
type ShortenRequest struct {
	OriginalURL string  `json:"originalUrl"`
	CustomAlias *string `json:"customAlias,omitempty"`
}

// Shorten handles POST /api/shorten
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req ShortenRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeValidation,
			"request body must be valid JSON with an 'originalUrl' field")
		return
	}

	link, err := h.service.Create(r.Context(), usecase.CreateLinkInput{
		OriginalURL: req.OriginalURL,
		CustomAlias: req.CustomAlias,
	})
	if err != nil {
		code := domain.ErrorCode(err)
		status := statusForCode(code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to create short link",
				zap.String("code", code),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
		}
		writeError(w, status, code, domain.ErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, ShortenResponse{
		Success: true,
		Data: &ShortLinkData{
			ID:          link.ID,
			Alias:       link.Alias,
			OriginalURL: link.OriginalURL,
			ShortURL:    h.shortURL(r, link.Alias),
			CreatedAt:   link.CreatedAt,
		},
	})
}

// Preflight handles OPTIONS /api/shorten; the CORS middleware sets the headers.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct{}{})
}

// Redirect handles GET /{alias}
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	// Extract visit data before the service hands it to a background goroutine.
	visit := usecase.Visit{
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		ClientIP:  clientIP(r),
	}

	target, err := h.service.Resolve(r.Context(), alias, visit)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			problem := problemdetails.New(
				http.StatusNotFound,
				problemdetails.TypeNotFound,
				"Not Found",
				"Short link not found: "+alias,
			).WithInstance(r.URL.Path)
			writeProblem(w, problem)
			return
		}

		h.logger.Error("failed to resolve short link",
			zap.String("alias", alias),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		problem := problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"Internal server error",
		).WithInstance(r.URL.Path)
		writeProblem(w, problem)
		return
	}

	// Every hit must reach the server to be counted.
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Robots-Tag", "noindex, nofollow")
	http.Redirect(w, r, target, http.StatusFound)
}

// GetLink handles GET /api/shorten/{alias}
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	link, err := h.service.GetLink(r.Context(), alias)
	if err != nil {
		code := domain.ErrorCode(err)
		status := statusForCode(code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to get short link",
				zap.String("alias", alias),
				zap.Error(err),
			)
		}
		writeJSON(w, status, LinkDetailsResponse{
			Success: false,
			Error:   &ErrorBody{Code: code, Message: domain.ErrorMessage(err)},
		})
		return
	}

	writeJSON(w, http.StatusOK, LinkDetailsResponse{
		Success: true,
		Data: &LinkDetails{
			ID:          link.ID,
			Alias:       link.Alias,
			OriginalURL: link.OriginalURL,
			ShortURL:    h.shortURL(r, link.Alias),
			CreatedAt:   link.CreatedAt,
			ClickCount:  link.ClickCount,
			IsActive:    link.IsActive,
			LastClickAt: link.LastClickAt,
		},
	})
}

// Healthz handles GET /healthz (liveness probe)
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz (readiness probe)
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Reason: "database unavailable: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

// shortURL builds the public URL of alias.
func (h *Handler) shortURL(r *http.Request, alias string) string {
	if h.opts.BaseURL != "" {
		return h.opts.BaseURL + "/" + alias
	}

	scheme := "http"
	if h.opts.Mode.IsProduction() {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host + "/" + alias
}
