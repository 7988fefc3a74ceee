// Package schedule is the single source of truth for quiz attempt windows.
// A window is the half-open interval [start, end): a quiz is attemptable the
// instant it starts and stops being attemptable the instant it ends. All
// decisions use the server clock; client countdowns are advisory.
package schedule

import "time"

// EndTime derives a quiz's end time from its start and duration.
// The end time is never stored; it is always recomputed from these two
// values so the pair cannot drift apart.
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// IsLive reports whether the quiz has started.
func IsLive(now, start time.Time) bool {
	return !now.Before(start)
}

// IsClosed reports whether the quiz has ended.
func IsClosed(now, end time.Time) bool {
	return !now.Before(end)
}

// AttemptWindowOpen reports whether now falls within [start, end).
func AttemptWindowOpen(now, start, end time.Time) bool {
	return IsLive(now, start) && !IsClosed(now, end)
}

// Window describes a quiz's optional attempt window. A nil Start means the
// quiz is untimed: its window is always open. Start and DurationMinutes are
// set together or not at all (validated at the repository boundary).
type Window struct {
	Start           *time.Time
	DurationMinutes *int
}

// Timed reports whether the window has a concrete start and duration.
func (w Window) Timed() bool {
	return w.Start != nil && w.DurationMinutes != nil
}

// End returns the derived end time, or nil for an untimed window.
func (w Window) End() *time.Time {
	if !w.Timed() {
		return nil
	}
	end := EndTime(*w.Start, *w.DurationMinutes)
	return &end
}

// Live reports whether the window has opened. Untimed windows are
// always live.
func (w Window) Live(now time.Time) bool {
	if w.Start == nil {
		return true
	}
	return IsLive(now, *w.Start)
}

// Open reports whether now falls within the attempt window, with an
// optional grace duration extending the closing edge. Untimed windows are
// always open.
func (w Window) Open(now time.Time, grace time.Duration) bool {
	if w.Start == nil {
		return true
	}
	if !IsLive(now, *w.Start) {
		return false
	}
	end := w.End()
	if end == nil {
		return true
	}
	return !IsClosed(now, end.Add(grace))
}
