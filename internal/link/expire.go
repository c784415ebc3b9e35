package link

import "time"

// Fixed expiry offsets, in minutes.
var expireOffsets = map[ExpireType]int{
	ExpireHour:  60,
	ExpireDay:   24 * 60,
	ExpireWeek:  7 * 24 * 60,
	ExpireMonth: 30 * 24 * 60,
}

// ComputeExpireTime derives the expiry timestamp for a link created at now.
// It returns nil for ExpireNever. For ExpireCustom the caller-supplied minute
// count is applied as-is; no upper bound is enforced.
func ComputeExpireTime(now time.Time, expireType ExpireType, customMinutes int) *time.Time {
	if expireType == ExpireNever {
		return nil
	}

	minutes, ok := expireOffsets[expireType]
	if !ok {
		minutes = customMinutes
	}

	t := now.Add(time.Duration(minutes) * time.Minute)

	return &t
}

// IsExpired reports whether t is strictly before now. A nil expiry never
// expires.
func IsExpired(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}

	return t.Before(now)
}

// DisplayTimeLayout is how expiry timestamps are rendered in API responses
// and on the expired page.
const DisplayTimeLayout = "2006/01/02 15:04:05"

// FormatExpireTime renders an expiry timestamp in the given display location.
// A nil expiry renders as "Never".
func FormatExpireTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "Never"
	}

	return t.In(loc).Format(DisplayTimeLayout)
}
