// Package problemdetails implements RFC 7807 problem responses.
package problemdetails

import "fmt"

const (
	TypeNotFound          = "not-found"
	TypeRateLimitExceeded = "rate-limit-exceeded"
	TypeInternalError     = "internal-error"
	TypeMethodNotAllowed  = "method-not-allowed"
)

// ContentType is the media type of a problem response.
const ContentType = "application/problem+json"

// BaseURI prefixes every problem type.
var BaseURI = "https://linker.dev/problems/"

type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func New(status int, problemType, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   fmt.Sprintf("%s%s", BaseURI, problemType),
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// WithInstance sets the URI reference of the failing request.
func (p *ProblemDetail) WithInstance(instance string) *ProblemDetail {
	p.Instance = instance
	return p
}
