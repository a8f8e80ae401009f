package cache

import (
	"context"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/usecase"
)

var _ usecase.LinkRepository = (*CachedLinkRepository)(nil)

// CachedLinkRepository wraps a LinkRepository with read-through caching.
// Writes always go to the underlying store first; the cache is only ever
// populated from or invalidated after a successful store operation.
type CachedLinkRepository struct {
	repo  usecase.LinkRepository
	cache LinkCache
}

// NewCachedLinkRepository creates a new cached repository wrapper.
func NewCachedLinkRepository(repo usecase.LinkRepository, cache LinkCache) *CachedLinkRepository {
	return &CachedLinkRepository{
		repo:  repo,
		cache: cache,
	}
}

// FindByAlias checks the cache first and falls back to the store.
// Misses are not cached, so a freshly created alias is visible immediately.
func (r *CachedLinkRepository) FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	if cached, err := r.cache.Get(ctx, alias); err == nil && cached != nil {
		return cached, nil
	}

	link, err := r.repo.FindByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, link)
	return link, nil
}

// InsertUnique persists a link and primes the cache.
func (r *CachedLinkRepository) InsertUnique(ctx context.Context, link *domain.ShortLink) error {
	if err := r.repo.InsertUnique(ctx, link); err != nil {
		return err
	}

	_ = r.cache.Set(ctx, link)
	return nil
}

// IncrementClick updates the counter and evicts the cached copy. A racing
// refill can only leave a stale click count, so no fence is set.
func (r *CachedLinkRepository) IncrementClick(ctx context.Context, alias string, at time.Time) error {
	if err := r.repo.IncrementClick(ctx, alias, at); err != nil {
		return err
	}

	_ = r.cache.Evict(ctx, alias)
	return nil
}

// SetActive flips the flag and invalidates the cached copy. The fence keeps
// an in-flight FindByAlias from caching the previous state.
func (r *CachedLinkRepository) SetActive(ctx context.Context, alias string, active bool) error {
	if err := r.repo.SetActive(ctx, alias, active); err != nil {
		return err
	}

	_ = r.cache.Invalidate(ctx, alias)
	return nil
}

// Ping checks the underlying store only; Redis is optional.
func (r *CachedLinkRepository) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}
