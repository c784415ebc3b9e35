package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortling/shortling/internal/accesslog"
	"github.com/shortling/shortling/internal/link"
	"github.com/shortling/shortling/internal/messaging"
	"go.uber.org/zap"
)

const htmlContentType = "text/html; charset=utf-8"

// LinkHandler handles link creation and resolution.
type LinkHandler struct {
	store         link.Repository
	creator       *link.Creator
	baseURL       string
	displayLoc    *time.Location
	publishAccess messaging.Publish[accesslog.AccessEvent]
	logger        *zap.Logger
	now           func() time.Time
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	store link.Repository,
	creator *link.Creator,
	baseURL string,
	displayLoc *time.Location,
	publishAccess messaging.Publish[accesslog.AccessEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		store:         store,
		creator:       creator,
		baseURL:       baseURL,
		displayLoc:    displayLoc,
		publishAccess: publishAccess,
		logger:        logger,
		now:           time.Now,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata recorded on links and access logs.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Referer   string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// CreateLink validates a creation request, resolves slug collisions, and
// stores a new link record. Creation is idempotent for identical (slug, url)
// pairs.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)

	expireType := link.ExpireType(req.Body.ExpireType)
	if req.Body.ExpireType == "" {
		expireType = link.ExpireNever
	}

	created, err := h.creator.Create(ctx, link.CreateRequest{
		URL:           req.Body.URL,
		Slug:          req.Body.Slug,
		Password:      req.Body.Password,
		ExpireType:    expireType,
		CustomMinutes: req.Body.CustomMinutes,
		IP:            meta.ClientIP,
		UserAgent:     meta.UserAgent,
	})
	if err != nil {
		var verr *link.ValidationError
		if errors.As(err, &verr) {
			return nil, huma.Error400BadRequest(verr.Message)
		}

		if errors.Is(err, link.ErrSlugTaken) {
			return nil, huma.Error409Conflict("Slug already exists.")
		}

		h.logger.Error("failed to create link",
			zap.String("requestId", meta.RequestID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	resp := &CreateLinkResponse{}
	resp.Body.Slug = string(created.Slug)
	resp.Body.Link = fmt.Sprintf("%s/%s", h.baseURL, created.Slug)
	resp.Body.IsPasswordProtected = created.Protected()
	resp.Body.ExpireType = string(created.ExpireType)
	resp.Body.ExpireTime = link.FormatExpireTime(created.ExpireTime, h.displayLoc)

	return resp, nil
}

// ResolveLink handles GET /{slug}. Terminal outcomes are HTML pages; a valid
// unprotected link is a 302 redirect.
func (h *LinkHandler) ResolveLink(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	l, err := h.store.GetBySlug(ctx, link.Slug(req.Slug))
	if err != nil && !errors.Is(err, link.ErrNotFound) {
		h.logger.Error("failed to look up link",
			zap.String("slug", req.Slug),
			zap.Error(err),
		)

		return htmlResponse(http.StatusInternalServerError, []byte(internalErrorPage)), nil
	}

	switch link.Decide(l, h.now(), link.Credential{}) {
	case link.OutcomeNotFound:
		return htmlResponse(http.StatusNotFound, []byte(notFoundPage)), nil

	case link.OutcomeExpired:
		return htmlResponse(http.StatusGone, renderExpiredPage(l.ExpireTime, h.displayLoc)), nil

	case link.OutcomeChallenge:
		return htmlResponse(http.StatusOK, renderPasswordPage(l.Slug)), nil

	default:
		h.recordAccess(ctx, l)

		resp := &ResolveResponse{Status: http.StatusFound}
		resp.Location = l.URL

		return resp, nil
	}
}

// VerifyPassword handles POST /{slug}. It re-runs the lookup and expiry
// checks, compares the candidate password, and returns the target URL as JSON
// for client-side navigation.
func (h *LinkHandler) VerifyPassword(ctx context.Context, req *VerifyPasswordRequest) (*VerifyPasswordResponse, error) {
	l, err := h.store.GetBySlug(ctx, link.Slug(req.Slug))
	if err != nil && !errors.Is(err, link.ErrNotFound) {
		h.logger.Error("failed to look up link",
			zap.String("slug", req.Slug),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to look up link")
	}

	password := req.XPassword
	if req.Body != nil && req.Body.Password != "" {
		password = req.Body.Password
	}

	switch link.Decide(l, h.now(), link.Credential{Password: password, Supplied: true}) {
	case link.OutcomeNotFound:
		return nil, huma.Error404NotFound("Link not found")

	case link.OutcomeExpired:
		return nil, huma.NewError(http.StatusGone, "Link has expired")

	case link.OutcomeUnauthorized:
		return nil, huma.Error401Unauthorized("Invalid password")

	default:
		h.recordAccess(ctx, l)

		resp := &VerifyPasswordResponse{}
		resp.Body.RedirectURL = l.URL

		return resp, nil
	}
}

// recordAccess publishes an access-log event. Delivery is best-effort:
// failures are logged and never fail the request.
func (h *LinkHandler) recordAccess(ctx context.Context, l *link.Link) {
	meta := RequestMetaFromContext(ctx)

	event := &accesslog.AccessEvent{
		URL:        l.URL,
		Slug:       string(l.Slug),
		IP:         meta.ClientIP,
		Referer:    meta.Referer,
		UserAgent:  meta.UserAgent,
		AccessedAt: h.now(),
	}

	if err := h.publishAccess(event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("requestId", meta.RequestID),
			zap.String("slug", event.Slug),
			zap.Error(err),
		)
	}
}

func htmlResponse(status int, body []byte) *ResolveResponse {
	return &ResolveResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}
