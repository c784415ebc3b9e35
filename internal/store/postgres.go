package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shortling/shortling/internal/accesslog"
	"github.com/shortling/shortling/internal/link"
)

// PostgresStore is a PostgreSQL implementation of link.Repository and
// accesslog.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const linkColumns = `slug, url, password, expire_type, expire_time, status, ip, ua, create_time`

func (p *PostgresStore) Insert(ctx context.Context, l *link.Link) error {
	query := `
		INSERT INTO links (url, slug, ip, status, ua, create_time,
			password, expire_type, expire_time, is_password_protected)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		l.URL,
		string(l.Slug),
		l.IP,
		l.Status,
		l.UserAgent,
		l.CreatedAt,
		nullableString(l.Password),
		string(l.ExpireType),
		l.ExpireTime,
		l.Protected(),
	)
	if err != nil {
		return err
	}

	// A lost slug race lands here instead of clobbering the existing row.
	if tag.RowsAffected() == 0 {
		return link.ErrSlugTaken
	}

	return nil
}

func (p *PostgresStore) GetBySlug(ctx context.Context, slug link.Slug) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE slug = $1
	`

	return p.queryLink(ctx, query, string(slug))
}

func (p *PostgresStore) GetUnprotectedBySlug(ctx context.Context, slug link.Slug) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE slug = $1 AND password IS NULL
	`

	return p.queryLink(ctx, query, string(slug))
}

func (p *PostgresStore) FindPermanentByURL(ctx context.Context, url string) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE url = $1 AND password IS NULL AND expire_type = 'never'
		LIMIT 1
	`

	return p.queryLink(ctx, query, url)
}

func (p *PostgresStore) SaveAccess(ctx context.Context, event *accesslog.AccessEvent) error {
	query := `
		INSERT INTO logs (url, slug, ip, referer, ua, create_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		event.URL,
		event.Slug,
		event.IP,
		event.Referer,
		event.UserAgent,
		event.AccessedAt,
	)

	return err
}

func (p *PostgresStore) queryLink(ctx context.Context, query string, arg string) (*link.Link, error) {
	var (
		l        link.Link
		password *string
	)

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&l.Slug,
		&l.URL,
		&password,
		&l.ExpireType,
		&l.ExpireTime,
		&l.Status,
		&l.IP,
		&l.UserAgent,
		&l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	if password != nil {
		l.Password = *password
	}

	return &l, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time checks.
var (
	_ link.Repository = (*PostgresStore)(nil)
	_ accesslog.Store = (*PostgresStore)(nil)
)
