package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/usecase"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// LinkRepository implements usecase.LinkRepository on PostgreSQL.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new PostgreSQL-backed link repository.
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

var _ usecase.LinkRepository = (*LinkRepository)(nil)

func (r *LinkRepository) FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	const query = `SELECT id, alias, original_url, is_active, click_count, created_at, last_click_at
FROM short_links WHERE lower(alias) = lower($1)`

	var (
		link        domain.ShortLink
		lastClickAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, alias).Scan(
		&link.ID,
		&link.Alias,
		&link.OriginalURL,
		&link.IsActive,
		&link.ClickCount,
		&link.CreatedAt,
		&lastClickAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}

	link.CreatedAt = link.CreatedAt.UTC()
	if lastClickAt.Valid {
		t := lastClickAt.Time.UTC()
		link.LastClickAt = &t
	}
	return &link, nil
}

func (r *LinkRepository) InsertUnique(ctx context.Context, link *domain.ShortLink) error {
	const query = `INSERT INTO short_links (id, alias, original_url, is_active, click_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		link.ID,
		link.Alias,
		link.OriginalURL,
		link.IsActive,
		link.ClickCount,
		link.CreatedAt.UTC(),
	)
	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("%w: %s", domain.ErrAliasConflict, link.Alias)
		}
		return err
	}
	return nil
}

func (r *LinkRepository) IncrementClick(ctx context.Context, alias string, at time.Time) error {
	const query = `UPDATE short_links SET click_count = click_count + 1, last_click_at = $1
WHERE lower(alias) = lower($2)`

	_, err := r.db.ExecContext(ctx, query, at.UTC(), alias)
	return err
}

func (r *LinkRepository) SetActive(ctx context.Context, alias string, active bool) error {
	const query = `UPDATE short_links SET is_active = $1 WHERE lower(alias) = lower($2)`

	res, err := r.db.ExecContext(ctx, query, active, alias)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isDuplicateError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
