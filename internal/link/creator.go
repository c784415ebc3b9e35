package link

import (
	"context"
	"errors"
	"time"
)

// SlugGenerator generates random slugs for links created without a custom one.
type SlugGenerator func() string

// CreateRequest is a validated-on-entry request to create a link.
type CreateRequest struct {
	URL           string
	Slug          string
	Password      string
	ExpireType    ExpireType
	CustomMinutes int

	// Provenance metadata, recorded write-once on the new row.
	IP        string
	UserAgent string
}

// Creator validates creation requests, resolves slug collisions, and inserts
// new link records.
type Creator struct {
	store        Repository
	generateSlug SlugGenerator
	// selfHost is the service's own hostname. Links pointing back at it are
	// rejected.
	selfHost string
	now      func() time.Time
}

// NewCreator creates a link creator.
func NewCreator(store Repository, generator SlugGenerator, selfHost string) *Creator {
	return &Creator{
		store:        store,
		generateSlug: generator,
		selfHost:     selfHost,
		now:          time.Now,
	}
}

// Create applies the validation and collision rules and returns the stored
// link. Creation is idempotent for identical (slug, url) pairs, and permanent
// unprotected links are de-duplicated by target URL.
func (c *Creator) Create(ctx context.Context, req CreateRequest) (*Link, error) {
	target, verr := ValidateURL(req.URL)
	if verr != nil {
		return nil, verr
	}

	if verr := ValidateSlug(req.Slug); verr != nil {
		return nil, verr
	}

	if verr := ValidateExpire(req.ExpireType, req.CustomMinutes); verr != nil {
		return nil, verr
	}

	if verr := ValidatePassword(req.Password); verr != nil {
		return nil, verr
	}

	if req.Slug != "" {
		existing, err := c.store.GetUnprotectedBySlug(ctx, Slug(req.Slug))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if existing != nil {
			if existing.URL == req.URL {
				return existing, nil
			}

			return nil, ErrSlugTaken
		}
	} else {
		// De-duplicate permanent, unprotected links only. Protected or
		// time-limited links always get a fresh slug.
		existing, err := c.store.FindPermanentByURL(ctx, req.URL)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if existing != nil {
			return existing, nil
		}
	}

	if target.Hostname() == c.selfHost {
		return nil, &ValidationError{
			Kind:    KindSelfReference,
			Message: "You cannot shorten a link to the same domain.",
		}
	}

	slug := req.Slug
	if slug == "" {
		// Freshly generated slugs are not pre-checked for existence; the
		// insert's uniqueness guard turns the rare collision into ErrSlugTaken.
		slug = c.generateSlug()
	}

	now := c.now()

	l := &Link{
		Slug:       Slug(slug),
		URL:        req.URL,
		Password:   req.Password,
		ExpireType: req.ExpireType,
		ExpireTime: ComputeExpireTime(now, req.ExpireType, req.CustomMinutes),
		Status:     1,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		CreatedAt:  now,
	}

	if err := c.store.Insert(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}
