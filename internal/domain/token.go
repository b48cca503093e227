package domain

import "time"

// millisecondEpochThreshold separates epoch seconds from epoch milliseconds.
// Seconds stay below it until the year 33658.
const millisecondEpochThreshold = 1_000_000_000_000

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (t Token) Present() bool {
	return t.AccessToken != ""
}

func (t Token) Usable(now time.Time) bool {
	return t.Present() && t.ExpiresAt.After(now)
}

func (t Token) ExpiresIn(now time.Time) time.Duration {
	if !t.Present() || t.ExpiresAt.IsZero() {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// EpochTime converts an epoch-like timestamp in seconds or milliseconds.
func EpochTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	if value >= millisecondEpochThreshold {
		return time.UnixMilli(value).UTC()
	}
	return time.Unix(value, 0).UTC()
}
