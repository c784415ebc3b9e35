package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jaevor/go-nanoid"
	"github.com/shortling/shortling/internal/accesslog"
	"github.com/shortling/shortling/internal/handlers"
	"github.com/shortling/shortling/internal/link"
	"github.com/shortling/shortling/internal/messaging"
	"github.com/shortling/shortling/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURL = "https://example.com/very/long/path"

var errMock = errors.New("mock store error")

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// capturePublish returns a publish function that records published events.
func capturePublish[T any](events *[]T) messaging.Publish[T] {
	return func(event *T) error {
		*events = append(*events, *event)

		return nil
	}
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// mockStore injects lookup failures.
type mockStore struct {
	getBySlugErr error
}

func (m *mockStore) Insert(_ context.Context, _ *link.Link) error { return nil }

func (m *mockStore) GetBySlug(_ context.Context, _ link.Slug) (*link.Link, error) {
	return nil, m.getBySlugErr
}

func (m *mockStore) GetUnprotectedBySlug(_ context.Context, _ link.Slug) (*link.Link, error) {
	return nil, m.getBySlugErr
}

func (m *mockStore) FindPermanentByURL(_ context.Context, _ string) (*link.Link, error) {
	return nil, m.getBySlugErr
}

func newTestHandler(t *testing.T, s link.Repository, publish messaging.Publish[accesslog.AccessEvent]) *handlers.LinkHandler {
	t.Helper()

	gen, err := nanoid.CustomASCII("abcdefghijklmnopqrstuvwxyz0123456789", 4)
	require.NoError(t, err)

	creator := link.NewCreator(s, gen, "localhost")

	return handlers.NewLinkHandler(s, creator, "http://localhost:8888", time.UTC, publish, zap.NewNop())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError

	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func TestCreateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates permanent link", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL

		resp, err := handler.CreateLink(ctx, req)

		require.NoError(t, err)
		assert.Len(t, resp.Body.Slug, 4)
		assert.Equal(t, "http://localhost:8888/"+resp.Body.Slug, resp.Body.Link)
		assert.False(t, resp.Body.IsPasswordProtected)
		assert.Equal(t, "never", resp.Body.ExpireType)
		assert.Equal(t, "Never", resp.Body.ExpireTime)
	})

	t.Run("hour expiry is creation time plus sixty minutes", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL
		req.Body.ExpireType = "hour"

		before := time.Now()
		resp, err := handler.CreateLink(ctx, req)

		require.NoError(t, err)

		got, parseErr := time.ParseInLocation(link.DisplayTimeLayout, resp.Body.ExpireTime, time.UTC)
		require.NoError(t, parseErr)

		expected := before.UTC().Add(time.Hour)
		assert.WithinDuration(t, expected, got, time.Minute)
	})

	t.Run("same slug and url twice returns the same slug", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL
		req.Body.Slug = "mylink"

		first, err := handler.CreateLink(ctx, req)
		require.NoError(t, err)

		second, err := handler.CreateLink(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first.Body.Slug, second.Body.Slug)
	})

	t.Run("existing slug with different url returns 409", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL
		req.Body.Slug = "mylink"

		_, err := handler.CreateLink(ctx, req)
		require.NoError(t, err)

		req2 := &handlers.CreateLinkRequest{}
		req2.Body.URL = "https://example.org/other"
		req2.Body.Slug = "mylink"

		_, err = handler.CreateLink(ctx, req2)

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("validation failures return 400", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		cases := []struct {
			name string
			mod  func(req *handlers.CreateLinkRequest)
		}{
			{"missing url", func(req *handlers.CreateLinkRequest) { req.Body.URL = "" }},
			{"short slug", func(req *handlers.CreateLinkRequest) { req.Body.Slug = "a" }},
			{"long slug", func(req *handlers.CreateLinkRequest) { req.Body.Slug = "12345678901" }},
			{"extension slug", func(req *handlers.CreateLinkRequest) { req.Body.Slug = "foo.png" }},
			{"weak password", func(req *handlers.CreateLinkRequest) { req.Body.Password = "abc" }},
			{"bad expire type", func(req *handlers.CreateLinkRequest) { req.Body.ExpireType = "fortnight" }},
			{"self reference", func(req *handlers.CreateLinkRequest) { req.Body.URL = "http://localhost:8888/x" }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := &handlers.CreateLinkRequest{}
				req.Body.URL = testURL
				tc.mod(req)

				_, err := handler.CreateLink(ctx, req)

				assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
			})
		}
	})

	t.Run("accepts four character password", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL
		req.Body.Password = "abcd"

		resp, err := handler.CreateLink(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Body.IsPasswordProtected)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		handler := newTestHandler(t, &mockStore{getBySlugErr: errMock}, noopPublish[accesslog.AccessEvent]())

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL
		req.Body.Slug = "mylink"

		_, err := handler.CreateLink(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestResolveLink(t *testing.T) {
	ctx := context.Background()

	t.Run("redirects unprotected link", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, ExpireType: link.ExpireNever,
		}))

		var events []accesslog.AccessEvent

		handler := newTestHandler(t, memStore, capturePublish(&events))

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, testURL, resp.Location)
		require.Len(t, events, 1)
		assert.Equal(t, "ab12", events[0].Slug)
		assert.Equal(t, testURL, events[0].URL)
	})

	t.Run("unknown slug returns 404 page", func(t *testing.T) {
		var events []accesslog.AccessEvent

		handler := newTestHandler(t, store.NewMemoryStore(), capturePublish(&events))

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "nope"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Contains(t, string(resp.Body), "404")
		assert.Empty(t, events)
	})

	t.Run("expired link returns 410 page with expiry timestamp", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		past := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, ExpireType: link.ExpireHour, ExpireTime: &past,
		}))

		var events []accesslog.AccessEvent

		handler := newTestHandler(t, memStore, capturePublish(&events))

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusGone, resp.Status)
		assert.Contains(t, string(resp.Body), "2026/01/02 03:04:05")
		assert.Empty(t, events)
	})

	t.Run("protected link returns challenge page not a redirect", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, Password: "abcd", ExpireType: link.ExpireNever,
		}))

		var events []accesslog.AccessEvent

		handler := newTestHandler(t, memStore, capturePublish(&events))

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Empty(t, resp.Location)
		assert.Contains(t, string(resp.Body), "password protected")
		assert.Contains(t, string(resp.Body), "ab12")
		assert.Empty(t, events)
	})

	t.Run("store failure returns 500 page", func(t *testing.T) {
		handler := newTestHandler(t, &mockStore{getBySlugErr: errMock}, noopPublish[accesslog.AccessEvent]())

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	})

	t.Run("publish failure does not fail the redirect", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, ExpireType: link.ExpireNever,
		}))

		handler := newTestHandler(t, memStore, errorPublish[accesslog.AccessEvent](errors.New("publish error")))

		resp, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()

	protectedStore := func(t *testing.T) *store.MemoryStore {
		t.Helper()

		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, Password: "abcd", ExpireType: link.ExpireNever,
		}))

		return memStore
	}

	t.Run("correct password returns redirect url", func(t *testing.T) {
		var events []accesslog.AccessEvent

		handler := newTestHandler(t, protectedStore(t), capturePublish(&events))

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.RedirectURL)
		require.Len(t, events, 1)
		assert.Equal(t, "ab12", events[0].Slug)
	})

	t.Run("password accepted from header", func(t *testing.T) {
		handler := newTestHandler(t, protectedStore(t), noopPublish[accesslog.AccessEvent]())

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", XPassword: "abcd"}

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.RedirectURL)
	})

	t.Run("wrong password returns 401 without lockout", func(t *testing.T) {
		var events []accesslog.AccessEvent

		handler := newTestHandler(t, protectedStore(t), capturePublish(&events))

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "wxyz"}}

		_, err := handler.VerifyPassword(ctx, req)

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		assert.Empty(t, events)

		// The link stays resolvable after a failed attempt.
		req.Body = &handlers.VerifyPasswordBody{Password: "abcd"}
		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.RedirectURL)
	})

	t.Run("unknown slug returns 404", func(t *testing.T) {
		handler := newTestHandler(t, store.NewMemoryStore(), noopPublish[accesslog.AccessEvent]())

		req := &handlers.VerifyPasswordRequest{Slug: "nope", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		_, err := handler.VerifyPassword(ctx, req)

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("expired link returns 410", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		past := time.Now().Add(-time.Hour)
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, Password: "abcd", ExpireType: link.ExpireHour, ExpireTime: &past,
		}))

		handler := newTestHandler(t, memStore, noopPublish[accesslog.AccessEvent]())

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		_, err := handler.VerifyPassword(ctx, req)

		assert.Equal(t, http.StatusGone, statusOf(t, err))
	})

	t.Run("unprotected link resolves without password", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, ExpireType: link.ExpireNever,
		}))

		handler := newTestHandler(t, memStore, noopPublish[accesslog.AccessEvent]())

		req := &handlers.VerifyPasswordRequest{Slug: "ab12"}

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.RedirectURL)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		handler := newTestHandler(t, &mockStore{getBySlugErr: errMock}, noopPublish[accesslog.AccessEvent]())

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		_, err := handler.VerifyPassword(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("request metadata flows into access events", func(t *testing.T) {
		var events []accesslog.AccessEvent

		handler := newTestHandler(t, protectedStore(t), capturePublish(&events))

		meta := handlers.RequestMeta{
			ClientIP:  "203.0.113.7",
			UserAgent: "TestAgent/1.0",
			Referer:   "https://referrer.example",
		}
		metaCtx := handlers.ContextWithRequestMeta(ctx, meta)

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		_, err := handler.VerifyPassword(metaCtx, req)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "203.0.113.7", events[0].IP)
		assert.Equal(t, "TestAgent/1.0", events[0].UserAgent)
		assert.Equal(t, "https://referrer.example", events[0].Referer)
	})
}

func TestResolveThenVerifyFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("get serves challenge then post unlocks", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		require.NoError(t, memStore.Insert(ctx, &link.Link{
			Slug: "ab12", URL: testURL, Password: "abcd", ExpireType: link.ExpireNever,
		}))

		var events []accesslog.AccessEvent

		handler := newTestHandler(t, memStore, capturePublish(&events))

		page, err := handler.ResolveLink(ctx, &handlers.ResolveRequest{Slug: "ab12"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, page.Status)
		assert.True(t, strings.Contains(string(page.Body), "ab12"))
		assert.Empty(t, events)

		req := &handlers.VerifyPasswordRequest{Slug: "ab12", Body: &handlers.VerifyPasswordBody{Password: "abcd"}}

		resp, err := handler.VerifyPassword(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.RedirectURL)
		assert.Len(t, events, 1)
	})
}
