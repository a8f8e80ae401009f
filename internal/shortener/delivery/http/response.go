package http

import (
	"encoding/json"
	"net/http"
	"time"

	"linker/internal/shortener/domain"
	"linker/pkg/problemdetails"
)

// ErrorBody is the error member of the API envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ShortLinkData is returned after a link has been created.
type ShortLinkData struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ShortenResponse is the envelope of POST /api/shorten.
type ShortenResponse struct {
	Success bool           `json:"success"`
	Data    *ShortLinkData `json:"data,omitempty"`
	Error   *ErrorBody     `json:"error,omitempty"`
}

// LinkDetails describes a stored link, including inactive ones.
type LinkDetails struct {
	ID          string     `json:"id"`
	Alias       string     `json:"alias"`
	OriginalURL string     `json:"originalUrl"`
	ShortURL    string     `json:"shortUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClickCount  int64      `json:"clickCount"`
	IsActive    bool       `json:"isActive"`
	LastClickAt *time.Time `json:"lastClickAt"`
}

// LinkDetailsResponse is the envelope of GET /api/shorten/{alias}.
type LinkDetailsResponse struct {
	Success bool         `json:"success"`
	Data    *LinkDetails `json:"data,omitempty"`
	Error   *ErrorBody   `json:"error,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

var errorStatus = map[string]int{
	domain.CodeValidation:       http.StatusBadRequest,
	domain.CodeAliasTaken:       http.StatusConflict,
	domain.CodeGenerationFailed: http.StatusInternalServerError,
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeInternal:         http.StatusInternalServerError,
}

// statusForCode maps an API error code to its HTTP status.
func statusForCode(code string) int {
	if status, ok := errorStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a failed API envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ShortenResponse{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// writeProblem writes an RFC 7807 Problem Details response
func writeProblem(w http.ResponseWriter, problem *problemdetails.ProblemDetail) {
	w.Header().Set("Content-Type", problemdetails.ContentType)
	w.WriteHeader(problem.Status)
	json.NewEncoder(w).Encode(problem)
}
