package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the creator, resolver, and health operations.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler, healthHandler *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/create",
		Summary:     "Create short link",
		Description: "Creates a slug to URL mapping with optional custom slug, password, and expiration policy.",
		Tags:        []string{"Links"},
	}, linkHandler.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-link",
		Method:      http.MethodGet,
		Path:        "/{slug}",
		Summary:     "Resolve short link",
		Description: "Redirects to the target URL, or serves the password challenge, not-found, or expired page.",
		Tags:        []string{"Links"},
	}, linkHandler.ResolveLink)

	huma.Register(api, huma.Operation{
		OperationID: "verify-password",
		Method:      http.MethodPost,
		Path:        "/{slug}",
		Summary:     "Verify link password",
		Description: "Checks the candidate password and returns the target URL for client-side navigation.",
		Tags:        []string{"Links"},
	}, linkHandler.VerifyPassword)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, healthHandler.Check)
}
