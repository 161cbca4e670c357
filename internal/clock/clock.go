// Package clock supplies the current time to code that evaluates schedules,
// so tests can pin it.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Real reads the system clock and reports it in Location.
type Real struct {
	Location *time.Location
}

func (r Real) Now() time.Time {
	if r.Location == nil {
		return time.Now()
	}
	return time.Now().In(r.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
