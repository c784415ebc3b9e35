package link

import (
	"net/url"
	"regexp"
)

// Kind classifies a request rejection. Kinds map one-to-one onto API error
// responses.
type Kind string

const (
	KindMissingField      Kind = "missing_field"
	KindInvalidURL        Kind = "invalid_url"
	KindInvalidSlug       Kind = "invalid_slug"
	KindInvalidExpireType Kind = "invalid_expire_type"
	KindWeakPassword      Kind = "weak_password"
	KindSelfReference     Kind = "self_reference"
	KindSlugTaken         Kind = "slug_taken"
)

// ValidationError is a rejected creation request. It is reported to the
// caller verbatim and never retried.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	slugMinLen = 2
	slugMaxLen = 10

	passwordMinLen = 4
)

// Custom slugs must not look like file names; a trailing dot-extension would
// shadow static assets.
var slugExtensionPattern = regexp.MustCompile(`.+\.[a-zA-Z]+$`)

// ValidateURL checks that raw is a parseable absolute URL and returns its
// parsed form.
func ValidateURL(raw string) (*url.URL, *ValidationError) {
	if raw == "" {
		return nil, &ValidationError{
			Kind:    KindMissingField,
			Message: "Missing url parameter. Correct format: url.",
		}
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &ValidationError{
			Kind:    KindInvalidURL,
			Message: "Invalid URL format: url.",
		}
	}

	return u, nil
}

// ValidateSlug checks a caller-supplied custom slug. An empty slug is valid;
// it means one should be generated.
func ValidateSlug(slug string) *ValidationError {
	if slug == "" {
		return nil
	}

	if len(slug) < slugMinLen || len(slug) > slugMaxLen || slugExtensionPattern.MatchString(slug) {
		return &ValidationError{
			Kind:    KindInvalidSlug,
			Message: "Illegal length: slug, (>= 2 && <= 10), or not ending with a file extension.",
		}
	}

	return nil
}

// ValidateExpire checks the expire type and the custom minute count.
func ValidateExpire(expireType ExpireType, customMinutes int) *ValidationError {
	if !expireType.Valid() {
		return &ValidationError{
			Kind:    KindInvalidExpireType,
			Message: "Invalid expireType. Must be one of: never, hour, day, week, month, custom.",
		}
	}

	if expireType == ExpireCustom && customMinutes < 0 {
		return &ValidationError{
			Kind:    KindInvalidExpireType,
			Message: "customMinutes must not be negative.",
		}
	}

	return nil
}

// ValidatePassword checks a caller-supplied password. An empty password is
// valid; it means the link is unprotected.
func ValidatePassword(password string) *ValidationError {
	if password == "" {
		return nil
	}

	if len(password) < passwordMinLen {
		return &ValidationError{
			Kind:    KindWeakPassword,
			Message: "Password must be at least 4 characters long.",
		}
	}

	return nil
}
