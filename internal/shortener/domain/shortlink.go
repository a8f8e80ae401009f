package domain

import "time"

// ShortLink maps an alias to its destination URL plus click metrics.
type ShortLink struct {
	ID          string     `json:"id"`
	Alias       string     `json:"alias"`
	OriginalURL string     `json:"original_url"`
	IsActive    bool       `json:"is_active"`
	ClickCount  int64      `json:"click_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastClickAt *time.Time `json:"last_click_at,omitempty"`
}

// Resolvable reports whether the link may be used for redirection.
func (l *ShortLink) Resolvable() bool {
	return l != nil && l.IsActive
}
