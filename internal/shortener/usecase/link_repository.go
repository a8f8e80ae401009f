package usecase

//go:generate mockery --name=LinkRepository --output=../testutil/mocks --outpkg=mocks --with-expecter --structname=MockLinkRepository

import (
	"context"
	"time"

	"linker/internal/shortener/domain"
)

// LinkRepository is the Shortened-Link Store. Implementations must enforce a
// unique index on the lowercased alias.
type LinkRepository interface {
	// FindByAlias looks an alias up case-insensitively.
	// Returns domain.ErrLinkNotFound when no record exists.
	FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error)

	// InsertUnique persists a new link. Returns domain.ErrAliasConflict when
	// the alias is already taken at the persistence layer.
	InsertUnique(ctx context.Context, link *domain.ShortLink) error

	// IncrementClick atomically adds one to the click count and sets last_click_at.
	IncrementClick(ctx context.Context, alias string, at time.Time) error

	// SetActive flips the active flag. Returns domain.ErrLinkNotFound for unknown aliases.
	SetActive(ctx context.Context, alias string, active bool) error

	// Ping checks store connectivity.
	Ping(ctx context.Context) error
}
