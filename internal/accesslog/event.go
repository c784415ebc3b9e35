package accesslog

import (
	"context"
	"time"
)

// TopicLinkAccessed carries one event per delivered (or password-authorized)
// redirect.
const TopicLinkAccessed = "link.accessed"

// AccessEvent is one access-log row in flight. Rows are append-only and never
// read back by the service.
type AccessEvent struct {
	URL        string    `json:"url"`
	Slug       string    `json:"slug"`
	IP         string    `json:"ip"`
	Referer    string    `json:"referer"`
	UserAgent  string    `json:"userAgent"`
	AccessedAt time.Time `json:"accessedAt"`
}

// Store defines the interface for persisting access-log rows.
type Store interface {
	SaveAccess(ctx context.Context, event *AccessEvent) error
}
