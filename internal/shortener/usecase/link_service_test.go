package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/domain/event"
	"linker/internal/shortener/testutil/mocks"
	"linker/internal/shortener/usecase"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, mode domain.Mode) (*usecase.LinkService, *mocks.MockLinkRepository, *mocks.MockEventPublisher) {
	t.Helper()
	repo := mocks.NewMockLinkRepository(t)
	publisher := mocks.NewMockEventPublisher(t)
	svc := usecase.NewLinkService(repo, publisher, zap.NewNop(), usecase.ServiceOptions{Mode: mode})
	return svc, repo, publisher
}

func eventNamed(name string) any {
	return mock.MatchedBy(func(e event.Event) bool { return e.EventName() == name })
}

func TestLinkService_Create_CustomAlias(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, domain.ErrLinkNotFound).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.MatchedBy(func(l *domain.ShortLink) bool {
		return l.Alias == "my-link" && l.OriginalURL == "https://example.com/page" && l.IsActive && l.ClickCount == 0
	})).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, eventNamed(event.LinkCreatedName)).Return(nil).Once()

	link, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com/page",
		CustomAlias: lo.ToPtr("my-link"),
	})

	require.NoError(t, err)
	assert.Equal(t, "my-link", link.Alias)
	assert.NotEmpty(t, link.ID)
	assert.False(t, link.CreatedAt.IsZero())
	assert.Nil(t, link.LastClickAt)
}

func TestLinkService_Create_CustomAliasIsLowercased(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, domain.ErrLinkNotFound).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.MatchedBy(func(l *domain.ShortLink) bool {
		return l.Alias == "my-link"
	})).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	link, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com/page",
		CustomAlias: lo.ToPtr("My-Link"),
	})

	require.NoError(t, err)
	assert.Equal(t, "my-link", link.Alias)
}

func TestLinkService_Create_InvalidURL(t *testing.T) {
	svc, _, _ := newService(t, domain.ModeDevelopment)

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "not-a-url"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Equal(t, domain.CodeValidation, domain.ErrorCode(err))
}

func TestLinkService_Create_PrivateHostInProduction(t *testing.T) {
	svc, _, _ := newService(t, domain.ModeProduction)

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "http://192.168.1.1/router"})

	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestLinkService_Create_RejectedAliasNeverReachesStore(t *testing.T) {
	tests := []struct {
		name  string
		alias string
		want  error
	}{
		{name: "reserved", alias: "admin", want: domain.ErrReservedAlias},
		{name: "reserved mixed case", alias: "Dashboard", want: domain.ErrReservedAlias},
		{name: "too short", alias: "ab", want: domain.ErrInvalidAlias},
		{name: "bad charset", alias: "hello world", want: domain.ErrInvalidAlias},
		{name: "too long", alias: "a123456789b123456789c123456789d123456789e123456789f", want: domain.ErrInvalidAlias},
		{name: "empty", alias: "", want: domain.ErrInvalidAlias},
		{name: "padded", alias: "  my-link  ", want: domain.ErrInvalidAlias},
		{name: "trailing newline", alias: "my-link\n", want: domain.ErrInvalidAlias},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any store call fails the test.
			svc, _, _ := newService(t, domain.ModeDevelopment)

			_, err := svc.Create(context.Background(), usecase.CreateLinkInput{
				OriginalURL: "https://example.com",
				CustomAlias: lo.ToPtr(tt.alias),
			})

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.CodeValidation, domain.ErrorCode(err))
		})
	}
}

func TestLinkService_Create_CustomAliasTaken(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(&domain.ShortLink{Alias: "my-link"}, nil).Once()

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomAlias: lo.ToPtr("MY-LINK"),
	})

	assert.ErrorIs(t, err, domain.ErrAliasTaken)
	assert.Equal(t, domain.CodeAliasTaken, domain.ErrorCode(err))
}

func TestLinkService_Create_CustomAliasConflictOnInsert(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, domain.ErrLinkNotFound).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(domain.ErrAliasConflict).Once()

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomAlias: lo.ToPtr("my-link"),
	})

	assert.ErrorIs(t, err, domain.ErrAliasTaken)
}

func TestLinkService_Create_GeneratedAliases(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrLinkNotFound).Twice()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(nil).Twice()
	publisher.EXPECT().Publish(mock.Anything, eventNamed(event.LinkCreatedName)).Return(nil).Twice()

	first, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "https://example.com/a"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "https://example.com/b"})
	require.NoError(t, err)

	assert.Len(t, first.Alias, domain.GeneratedAliasLength)
	assert.Len(t, second.Alias, domain.GeneratedAliasLength)
	assert.NotEqual(t, first.Alias, second.Alias)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestLinkService_Create_GeneratedAliasRetriesInsertConflict(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrLinkNotFound).Twice()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(domain.ErrAliasConflict).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	link, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "https://example.com"})

	require.NoError(t, err)
	assert.Len(t, link.Alias, domain.GeneratedAliasLength)
}

func TestLinkService_Create_GeneratedAliasInsertConflictsExhaust(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrLinkNotFound).Times(3)
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(domain.ErrAliasConflict).Times(3)

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "https://example.com"})

	assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
	assert.Equal(t, domain.CodeGenerationFailed, domain.ErrorCode(err))
}

func TestLinkService_Create_GenerationExhausted(t *testing.T) {
	repo := mocks.NewMockLinkRepository(t)
	svc := usecase.NewLinkService(repo, nil, zap.NewNop(), usecase.ServiceOptions{MaxRetries: 5})

	repo.EXPECT().FindByAlias(mock.Anything, mock.AnythingOfType("string")).
		Return(&domain.ShortLink{Alias: "taken"}, nil).
		Times(5)

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{OriginalURL: "https://example.com"})

	assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
}

func TestLinkService_Create_StoreFailureIsInternal(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)
	storeErr := errors.New("disk I/O error")

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, domain.ErrLinkNotFound).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(storeErr).Once()

	_, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomAlias: lo.ToPtr("my-link"),
	})

	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, domain.CodeInternal, domain.ErrorCode(err))
}

func TestLinkService_Create_PublishFailureDoesNotFailCreate(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, domain.ErrLinkNotFound).Once()
	repo.EXPECT().InsertUnique(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("bus closed")).Once()

	link, err := svc.Create(context.Background(), usecase.CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomAlias: lo.ToPtr("my-link"),
	})

	require.NoError(t, err)
	assert.Equal(t, "my-link", link.Alias)
}

func TestLinkService_Resolve(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").
		Return(&domain.ShortLink{Alias: "my-link", OriginalURL: "https://example.com/page", IsActive: true}, nil).
		Once()
	repo.EXPECT().IncrementClick(mock.Anything, "my-link", mock.AnythingOfType("time.Time")).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(e event.Event) bool {
		clicked, ok := e.(event.LinkClicked)
		return ok && clicked.Recorded && clicked.UserAgent == "curl/8.0" && clicked.ClientIP == "203.0.113.7"
	})).Return(nil).Once()

	target, err := svc.Resolve(context.Background(), "My-Link", usecase.Visit{
		UserAgent: "curl/8.0",
		ClientIP:  "203.0.113.7",
	})
	svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", target)
}

func TestLinkService_Resolve_NotFound(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "nonexistent").Return(nil, domain.ErrLinkNotFound).Once()

	target, err := svc.Resolve(context.Background(), "nonexistent", usecase.Visit{})
	svc.Wait()

	assert.Empty(t, target)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkService_Resolve_InactiveIsNotFound(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "paused").
		Return(&domain.ShortLink{Alias: "paused", OriginalURL: "https://example.com", IsActive: false}, nil).
		Once()

	_, err := svc.Resolve(context.Background(), "paused", usecase.Visit{})
	svc.Wait()

	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkService_Resolve_ClickFailureIsSwallowed(t *testing.T) {
	svc, repo, publisher := newService(t, domain.ModeDevelopment)

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").
		Return(&domain.ShortLink{Alias: "my-link", OriginalURL: "https://example.com/page", IsActive: true}, nil).
		Once()
	repo.EXPECT().IncrementClick(mock.Anything, "my-link", mock.Anything).Return(errors.New("database is locked")).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(e event.Event) bool {
		clicked, ok := e.(event.LinkClicked)
		return ok && !clicked.Recorded
	})).Return(nil).Once()

	target, err := svc.Resolve(context.Background(), "my-link", usecase.Visit{})
	svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", target)
}

func TestLinkService_Resolve_ClickSurvivesRequestCancellation(t *testing.T) {
	repo := mocks.NewMockLinkRepository(t)
	svc := usecase.NewLinkService(repo, nil, zap.NewNop(), usecase.ServiceOptions{})

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").
		Return(&domain.ShortLink{Alias: "my-link", OriginalURL: "https://example.com", IsActive: true}, nil).
		Once()
	repo.EXPECT().IncrementClick(mock.Anything, "my-link", mock.Anything).
		RunAndReturn(func(ctx context.Context, _ string, _ time.Time) error {
			return ctx.Err()
		}).
		Once()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Resolve(ctx, "my-link", usecase.Visit{})
	cancel()
	svc.Wait()

	require.NoError(t, err)
}

func TestLinkService_Resolve_StoreError(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)
	storeErr := errors.New("connection reset")

	repo.EXPECT().FindByAlias(mock.Anything, "my-link").Return(nil, storeErr).Once()

	_, err := svc.Resolve(context.Background(), "my-link", usecase.Visit{})

	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkService_SetActive(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)

	repo.EXPECT().SetActive(mock.Anything, "my-link", false).Return(nil).Once()
	repo.EXPECT().SetActive(mock.Anything, "missing", true).Return(domain.ErrLinkNotFound).Once()

	require.NoError(t, svc.SetActive(context.Background(), "My-Link", false))
	assert.ErrorIs(t, svc.SetActive(context.Background(), "missing", true), domain.ErrLinkNotFound)
}

func TestLinkService_GetLink(t *testing.T) {
	svc, repo, _ := newService(t, domain.ModeDevelopment)
	stored := &domain.ShortLink{Alias: "paused", OriginalURL: "https://example.com", IsActive: false, ClickCount: 3}

	repo.EXPECT().FindByAlias(mock.Anything, "paused").Return(stored, nil).Once()

	link, err := svc.GetLink(context.Background(), "PAUSED")

	require.NoError(t, err)
	assert.Equal(t, stored, link)
}

func TestLinkService_Resolve_MalformedAliasSkipsStore(t *testing.T) {
	svc, _, _ := newService(t, domain.ModeDevelopment)

	for _, alias := range []string{"favicon.ico", "ab", "has space", ""} {
		_, err := svc.Resolve(context.Background(), alias, usecase.Visit{})
		assert.ErrorIs(t, err, domain.ErrLinkNotFound, alias)
	}
}
