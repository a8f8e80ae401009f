package usecase

//go:generate mockery --name=EventPublisher --output=../testutil/mocks --outpkg=mocks --with-expecter --structname=MockEventPublisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/domain/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxInsertAttempts  = 3
	clickUpdateTimeout = 5 * time.Second
)

// EventPublisher publishes link events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// CreateLinkInput is the validated-by-service input of a creation request.
type CreateLinkInput struct {
	OriginalURL string
	// CustomAlias is nil when the caller did not ask for one. A present value
	// is validated as given, so an empty or padded alias is rejected.
	CustomAlias *string
}

// Visit describes the client that followed a short link.
type Visit struct {
	UserAgent string
	Referer   string
	ClientIP  string
}

// ServiceOptions tunes LinkService behaviour.
type ServiceOptions struct {
	Mode       domain.Mode
	MaxRetries int
}

// LinkService creates short links and resolves aliases for redirection.
type LinkService struct {
	repo      LinkRepository
	allocator *AliasAllocator
	publisher EventPublisher // may be nil
	logger    *zap.Logger
	opts      ServiceOptions
	now       func() time.Time
	inflight  sync.WaitGroup
}

// NewLinkService creates a new link service.
func NewLinkService(repo LinkRepository, publisher EventPublisher, logger *zap.Logger, opts ServiceOptions) *LinkService {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultAliasRetries
	}
	return &LinkService{
		repo:      repo,
		allocator: NewAliasAllocator(repo),
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Allocator exposes the alias allocator backing the service.
func (s *LinkService) Allocator() *AliasAllocator {
	return s.allocator
}

// Create validates the input, resolves an alias and persists a new active link.
func (s *LinkService) Create(ctx context.Context, in CreateLinkInput) (*domain.ShortLink, error) {
	originalURL := strings.TrimSpace(in.OriginalURL)
	if err := domain.ValidateOriginalURL(originalURL, s.opts.Mode); err != nil {
		return nil, err
	}

	var (
		link *domain.ShortLink
		err  error
	)
	custom := in.CustomAlias != nil
	if custom {
		link, err = s.createWithCustomAlias(ctx, originalURL, *in.CustomAlias)
	} else {
		link, err = s.createWithGeneratedAlias(ctx, originalURL)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("short link created",
		zap.String("id", link.ID),
		zap.String("alias", link.Alias),
		zap.Bool("custom", custom),
	)
	s.publish(ctx, event.NewLinkCreated(link.ID, link.Alias, link.OriginalURL, custom))

	return link, nil
}

func (s *LinkService) createWithCustomAlias(ctx context.Context, originalURL, customAlias string) (*domain.ShortLink, error) {
	if err := domain.ValidateCustomAlias(customAlias); err != nil {
		return nil, err
	}

	available, err := s.allocator.IsAliasAvailable(ctx, customAlias)
	if err != nil {
		return nil, fmt.Errorf("check alias availability: %w", err)
	}
	if !available {
		return nil, domain.ErrAliasTaken
	}

	link := s.newLink(domain.NormalizeAlias(customAlias), originalURL)
	if err := s.repo.InsertUnique(ctx, link); err != nil {
		if errors.Is(err, domain.ErrAliasConflict) {
			// Lost the race between the availability check and the insert.
			return nil, domain.ErrAliasTaken
		}
		return nil, fmt.Errorf("insert short link: %w", err)
	}
	return link, nil
}

func (s *LinkService) createWithGeneratedAlias(ctx context.Context, originalURL string) (*domain.ShortLink, error) {
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		alias, err := s.allocator.GenerateUniqueAlias(ctx, s.opts.MaxRetries)
		if err != nil {
			if errors.Is(err, domain.ErrGenerationExhausted) {
				return nil, err
			}
			return nil, fmt.Errorf("generate alias: %w", err)
		}

		link := s.newLink(alias, originalURL)
		err = s.repo.InsertUnique(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, domain.ErrAliasConflict) {
			return nil, fmt.Errorf("insert short link: %w", err)
		}

		s.logger.Warn("generated alias collided on insert, retrying",
			zap.String("alias", alias),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, domain.ErrGenerationExhausted
}

func (s *LinkService) newLink(alias, originalURL string) *domain.ShortLink {
	return &domain.ShortLink{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Alias:       alias,
		OriginalURL: originalURL,
		IsActive:    true,
		ClickCount:  0,
		CreatedAt:   s.now(),
	}
}

// Resolve returns the redirect target for alias. Missing and inactive links
// both yield domain.ErrLinkNotFound. The click is recorded in the background
// and its outcome never affects the returned target.
func (s *LinkService) Resolve(ctx context.Context, alias string, visit Visit) (string, error) {
	if !domain.IsWellFormedAlias(alias) {
		return "", domain.ErrLinkNotFound
	}
	key := domain.NormalizeAlias(alias)

	link, err := s.repo.FindByAlias(ctx, key)
	if err != nil {
		return "", err
	}
	if !link.Resolvable() {
		return "", domain.ErrLinkNotFound
	}

	target := link.OriginalURL

	s.inflight.Add(1)
	go s.recordClick(context.WithoutCancel(ctx), key, visit)

	return target, nil
}

func (s *LinkService) recordClick(ctx context.Context, alias string, visit Visit) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(ctx, clickUpdateTimeout)
	defer cancel()

	clickedAt := s.now()
	recorded := true
	if err := s.repo.IncrementClick(ctx, alias, clickedAt); err != nil {
		recorded = false
		s.logger.Error("failed to record click",
			zap.String("alias", alias),
			zap.Error(err),
		)
	}

	s.publish(ctx, event.NewLinkClicked(alias, clickedAt, visit.UserAgent, visit.Referer, visit.ClientIP, recorded))
}

// GetLink returns a link by alias regardless of its active flag.
func (s *LinkService) GetLink(ctx context.Context, alias string) (*domain.ShortLink, error) {
	if !domain.IsWellFormedAlias(alias) {
		return nil, domain.ErrLinkNotFound
	}
	return s.repo.FindByAlias(ctx, domain.NormalizeAlias(alias))
}

// SetActive enables or disables redirection for alias.
func (s *LinkService) SetActive(ctx context.Context, alias string, active bool) error {
	if err := s.repo.SetActive(ctx, domain.NormalizeAlias(alias), active); err != nil {
		return err
	}
	s.logger.Info("short link state changed",
		zap.String("alias", alias),
		zap.Bool("active", active),
	)
	return nil
}

// Ping reports whether the store is reachable.
func (s *LinkService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Wait blocks until all in-flight click updates have finished.
func (s *LinkService) Wait() {
	s.inflight.Wait()
}

func (s *LinkService) publish(ctx context.Context, e event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event", e.EventName()),
			zap.String("alias", e.AggregateID()),
			zap.Error(err),
		)
	}
}
