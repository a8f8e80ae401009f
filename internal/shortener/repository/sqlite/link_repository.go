package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"linker/internal/shortener/domain"
	"linker/internal/shortener/usecase"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	selectLinkByAlias = `SELECT id, alias, original_url, is_active, click_count, created_at, last_click_at
FROM short_links WHERE lower(alias) = lower(?)`

	insertLink = `INSERT INTO short_links (id, alias, original_url, is_active, click_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	incrementClick = `UPDATE short_links SET click_count = click_count + 1, last_click_at = ?
WHERE lower(alias) = lower(?)`

	updateActive = `UPDATE short_links SET is_active = ? WHERE lower(alias) = lower(?)`
)

// LinkRepository implements usecase.LinkRepository on SQLite.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new SQLite-backed link repository
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Ensure LinkRepository implements usecase.LinkRepository at compile time
var _ usecase.LinkRepository = (*LinkRepository)(nil)

// FindByAlias retrieves a link by alias, ignoring case.
func (r *LinkRepository) FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	var (
		link        domain.ShortLink
		lastClickAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, selectLinkByAlias, alias).Scan(
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

// InsertUnique creates a new link record. A duplicate alias yields domain.ErrAliasConflict.
func (r *LinkRepository) InsertUnique(ctx context.Context, link *domain.ShortLink) error {
	_, err := r.db.ExecContext(ctx, insertLink,
		link.ID,
		link.Alias,
		link.OriginalURL,
		link.IsActive,
		link.ClickCount,
		link.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAliasConflict, link.Alias)
		}
		return err
	}
	return nil
}

// IncrementClick bumps the click counter in a single statement.
func (r *LinkRepository) IncrementClick(ctx context.Context, alias string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, incrementClick, at.UTC(), alias)
	return err
}

// SetActive flips the active flag of an existing link.
func (r *LinkRepository) SetActive(ctx context.Context, alias string, active bool) error {
	res, err := r.db.ExecContext(ctx, updateActive, active, alias)
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

// Ping checks the database connection.
func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
