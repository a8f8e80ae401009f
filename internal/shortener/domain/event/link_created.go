package event

const LinkCreatedName = "link.created"

var _ Event = LinkCreated{}

// LinkCreated is raised after a short link has been persisted.
type LinkCreated struct {
	Base
	LinkID      string `json:"link_id"`
	Alias       string `json:"alias"`
	OriginalURL string `json:"original_url"`
	Custom      bool   `json:"custom"`
}

// NewLinkCreated creates a new LinkCreated event.
func NewLinkCreated(linkID, alias, originalURL string, custom bool) LinkCreated {
	return LinkCreated{
		Base:        NewBase(alias),
		LinkID:      linkID,
		Alias:       alias,
		OriginalURL: originalURL,
		Custom:      custom,
	}
}

func (e LinkCreated) EventName() string {
	return LinkCreatedName
}
