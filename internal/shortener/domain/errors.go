package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidAlias        = errors.New("invalid alias")
	ErrReservedAlias       = errors.New("alias is reserved")
	ErrAliasTaken          = errors.New("alias already in use")
	ErrAliasConflict       = errors.New("alias unique constraint violated")
	ErrGenerationExhausted = errors.New("alias generation failed after max retries")
	ErrLinkNotFound        = errors.New("short link not found")
)

// Error codes returned to API clients.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeAliasTaken       = "ALIAS_TAKEN"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorCode maps an error returned by the shortener to its API error code.
// Anything not recognised is an internal error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrInvalidAlias),
		errors.Is(err, ErrReservedAlias):
		return CodeValidation
	case errors.Is(err, ErrAliasTaken), errors.Is(err, ErrAliasConflict):
		return CodeAliasTaken
	case errors.Is(err, ErrGenerationExhausted):
		return CodeGenerationFailed
	case errors.Is(err, ErrLinkNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// ErrorMessage returns the client-facing message for err. Validation errors
// keep their rule message; every other class gets a fixed text so store
// details never leak.
func ErrorMessage(err error) string {
	switch ErrorCode(err) {
	case CodeValidation:
		msg := err.Error()
		for _, sentinel := range []error{ErrInvalidURL, ErrInvalidAlias, ErrReservedAlias} {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
		return msg
	case CodeAliasTaken:
		return "This alias is already in use. Please choose another."
	case CodeGenerationFailed:
		return "Could not generate a unique alias. Please try again."
	case CodeNotFound:
		return "Short link not found."
	default:
		return "Internal server error. Please try again later."
	}
}
