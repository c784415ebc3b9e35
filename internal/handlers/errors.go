package handlers

import "github.com/danielgtaylor/huma/v2"

// APIError is the JSON error body for every non-2xx JSON response:
// {"message": "..."}. It replaces huma's default RFC 9457 problem model.
type APIError struct {
	status  int
	Message string `doc:"Human-readable error description" json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType implements huma.ContentTypeFilter so errors are served as plain
// application/json instead of application/problem+json.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// UseAPIErrors installs APIError as the error model for all huma-generated
// errors. Call once before registering routes.
func UseAPIErrors() {
	huma.NewError = func(status int, message string, _ ...error) huma.StatusError {
		return &APIError{status: status, Message: message}
	}
}
