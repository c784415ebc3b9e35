package store

import (
	"context"
	"sync"

	"github.com/shortling/shortling/internal/accesslog"
	"github.com/shortling/shortling/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository and
// accesslog.Store, used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[link.Slug]*link.Link
	logs  []accesslog.AccessEvent
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[link.Slug]*link.Link),
	}
}

func (m *MemoryStore) Insert(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[l.Slug]; exists {
		return link.ErrSlugTaken
	}

	cp := *l
	m.links[l.Slug] = &cp

	return nil
}

func (m *MemoryStore) GetBySlug(_ context.Context, slug link.Slug) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[slug]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *l

	return &cp, nil
}

func (m *MemoryStore) GetUnprotectedBySlug(_ context.Context, slug link.Slug) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[slug]
	if !ok || l.Protected() {
		return nil, link.ErrNotFound
	}

	cp := *l

	return &cp, nil
}

func (m *MemoryStore) FindPermanentByURL(_ context.Context, url string) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.URL == url && !l.Protected() && l.ExpireType == link.ExpireNever {
			cp := *l

			return &cp, nil
		}
	}

	return nil, link.ErrNotFound
}

func (m *MemoryStore) SaveAccess(_ context.Context, event *accesslog.AccessEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logs = append(m.logs, *event)

	return nil
}

// AccessLogs returns a snapshot of recorded access events.
func (m *MemoryStore) AccessLogs() []accesslog.AccessEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]accesslog.AccessEvent, len(m.logs))
	copy(out, m.logs)

	return out
}

// Compile-time checks.
var (
	_ link.Repository = (*MemoryStore)(nil)
	_ accesslog.Store = (*MemoryStore)(nil)
)
