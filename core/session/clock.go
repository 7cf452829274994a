package session

import "time"

// Clock abstracts wall-clock reads and timer scheduling so tests can drive
// the refresh scheduler deterministically.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run in its own goroutine after d elapses
	// and returns the armed timer.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is an armed, cancelable callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from firing.
	Stop() bool
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
