package ports

import "time"

// Clock stamps exports. Tests substitute a fixed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reports the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
