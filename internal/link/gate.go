package link

import (
	"crypto/subtle"
	"time"
)

// Outcome is the terminal decision of the resolution gate.
type Outcome int

const (
	// OutcomeNotFound means no record exists for the slug.
	OutcomeNotFound Outcome = iota
	// OutcomeExpired means the record exists but its expiry is in the past.
	OutcomeExpired
	// OutcomeChallenge means the link is protected and no credential was
	// supplied; the caller must present the password prompt.
	OutcomeChallenge
	// OutcomeUnauthorized means the supplied credential does not match.
	OutcomeUnauthorized
	// OutcomeAllowed means the caller may be sent to the target URL.
	OutcomeAllowed
)

// Credential is an optional password supplied with a resolution request.
// The zero value means no credential was supplied.
type Credential struct {
	Password string
	Supplied bool
}

// Decide runs the resolution gate for one request. The checks are ordered:
// existence, then expiry, then the password gate; the first failing check is
// terminal. Both the GET and POST handlers go through Decide.
func Decide(l *Link, now time.Time, cred Credential) Outcome {
	if l == nil {
		return OutcomeNotFound
	}

	if l.Expired(now) {
		return OutcomeExpired
	}

	if l.Protected() {
		if !cred.Supplied {
			return OutcomeChallenge
		}

		if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(l.Password)) != 1 {
			return OutcomeUnauthorized
		}
	}

	return OutcomeAllowed
}
