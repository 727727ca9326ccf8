// Package clock injects time into the movement scheduler so batch runs can
// be pinned to a date in tests.
package clock

import "time"

// Clock abstracts time for deterministic scheduling tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
