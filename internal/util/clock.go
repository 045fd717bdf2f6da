package util

import "time"

// Clock provides the current time. Date-boundary logic takes a Clock instead
// of calling time.Now directly so it stays deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the OS clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
