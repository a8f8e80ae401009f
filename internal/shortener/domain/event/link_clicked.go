package event

import "time"

const LinkClickedName = "link.clicked"

var _ Event = LinkClicked{}

// LinkClicked is raised when a redirect has been served.
// Recorded is false when the click counter update failed.
type LinkClicked struct {
	Base
	Alias     string    `json:"alias"`
	ClickedAt time.Time `json:"clicked_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Recorded  bool      `json:"recorded"`
}

// NewLinkClicked creates a new LinkClicked event.
func NewLinkClicked(alias string, clickedAt time.Time, userAgent, referer, clientIP string, recorded bool) LinkClicked {
	return LinkClicked{
		Base:      NewBase(alias),
		Alias:     alias,
		ClickedAt: clickedAt,
		UserAgent: userAgent,
		Referer:   referer,
		ClientIP:  clientIP,
		Recorded:  recorded,
	}
}

func (e LinkClicked) EventName() string {
	return LinkClickedName
}
