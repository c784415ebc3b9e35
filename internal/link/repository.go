package link

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repository lookups when no record matches.
var ErrNotFound = errors.New("link not found")

// ErrSlugTaken is returned by Insert when the slug already exists.
var ErrSlugTaken = errors.New("slug already exists")

// Repository defines the interface for link storage operations.
type Repository interface {
	// Insert stores a new link record. It returns ErrSlugTaken if a record
	// with the same slug already exists.
	Insert(ctx context.Context, l *Link) error

	// GetBySlug retrieves a link by its slug.
	GetBySlug(ctx context.Context, slug Slug) (*Link, error)

	// GetUnprotectedBySlug retrieves a link by slug, considering only
	// records without a password. Used by the creator's collision check.
	GetUnprotectedBySlug(ctx context.Context, slug Slug) (*Link, error)

	// FindPermanentByURL retrieves an un-passworded, never-expiring link
	// whose target matches url. Used for de-duplication of permanent links.
	FindPermanentByURL(ctx context.Context, url string) (*Link, error)
}
