package link

import "time"

// Slug is the short identifier a link is resolved by.
type Slug string

// ExpireType selects how a link's expiry timestamp is derived at creation.
type ExpireType string

const (
	ExpireNever  ExpireType = "never"
	ExpireHour   ExpireType = "hour"
	ExpireDay    ExpireType = "day"
	ExpireWeek   ExpireType = "week"
	ExpireMonth  ExpireType = "month"
	ExpireCustom ExpireType = "custom"
)

// Valid reports whether t is one of the enumerated expire types.
func (t ExpireType) Valid() bool {
	switch t {
	case ExpireNever, ExpireHour, ExpireDay, ExpireWeek, ExpireMonth, ExpireCustom:
		return true
	}

	return false
}

// Link is a slug -> URL mapping. Records are write-once: they are never
// updated after creation and expire implicitly by time comparison at read time.
type Link struct {
	Slug       Slug
	URL        string
	Password   string // empty when the link is not protected
	ExpireType ExpireType
	ExpireTime *time.Time // nil means the link never expires
	Status     int
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// Protected reports whether resolving the link requires a password.
func (l *Link) Protected() bool {
	return l.Password != ""
}

// Expired reports whether the link's expiry timestamp is strictly in the past.
// It must be re-evaluated on every read; the answer changes over time.
func (l *Link) Expired(now time.Time) bool {
	return IsExpired(l.ExpireTime, now)
}
