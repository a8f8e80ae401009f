package usecase

import (
	"context"
	"errors"
	"fmt"

	"linker/internal/shortener/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const DefaultAliasRetries = 10

// AliasAllocator hands out random aliases and checks custom ones for availability.
type AliasAllocator struct {
	repo     LinkRepository
	generate func() (string, error)
}

// NewAliasAllocator creates an allocator producing 6-character aliases from
// the 62-symbol alphanumeric alphabet.
func NewAliasAllocator(repo LinkRepository) *AliasAllocator {
	return &AliasAllocator{
		repo: repo,
		generate: func() (string, error) {
			return gonanoid.Generate(domain.AliasAlphabet, domain.GeneratedAliasLength)
		},
	}
}

// GenerateUniqueAlias returns the first generated candidate that is not yet
// stored. It gives up with domain.ErrGenerationExhausted after maxRetries
// collisions; a non-positive maxRetries uses DefaultAliasRetries.
func (a *AliasAllocator) GenerateUniqueAlias(ctx context.Context, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultAliasRetries
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate, err := a.generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate alias: %w", err)
		}

		available, err := a.IsAliasAvailable(ctx, candidate)
		if err != nil {
			return "", err
		}
		if available {
			return candidate, nil
		}
	}

	return "", domain.ErrGenerationExhausted
}

// IsAliasAvailable reports whether no link uses candidate, ignoring case.
// Charset and reserved words are the caller's concern.
func (a *AliasAllocator) IsAliasAvailable(ctx context.Context, candidate string) (bool, error) {
	_, err := a.repo.FindByAlias(ctx, domain.NormalizeAlias(candidate))
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrLinkNotFound) {
		return true, nil
	}
	return false, err
}
