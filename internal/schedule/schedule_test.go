package schedule

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestEndTime(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     time.Time
	}{
		{"thirty minutes", base, 30, base.Add(30 * time.Minute)},
		{"one minute", base, 1, base.Add(time.Minute)},
		{"crosses midnight", time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC), 30, time.Date(2025, 6, 2, 0, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EndTime(tt.start, tt.duration); !got.Equal(tt.want) {
				t.Errorf("EndTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttemptWindowBoundaries(t *testing.T) {
	start := base
	end := EndTime(start, 30)

	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"well before start", start.Add(-time.Hour), false},
		{"one second before start", start.Add(-time.Second), false},
		{"exactly at start", start, true},
		{"mid window", start.Add(15 * time.Minute), true},
		{"one second before end", end.Add(-time.Second), true},
		{"exactly at end", end, false},
		{"after end", end.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttemptWindowOpen(tt.now, start, end); got != tt.open {
				t.Errorf("AttemptWindowOpen(%v) = %v, want %v", tt.now, got, tt.open)
			}
		})
	}
}

func TestIsLiveIsClosed(t *testing.T) {
	if IsLive(base.Add(-time.Nanosecond), base) {
		t.Error("quiz must not be live before its start")
	}
	if !IsLive(base, base) {
		t.Error("quiz must be live exactly at its start")
	}
	if IsClosed(base.Add(-time.Nanosecond), base) {
		t.Error("quiz must not be closed before its end")
	}
	if !IsClosed(base, base) {
		t.Error("quiz must be closed exactly at its end")
	}
}

func TestWindowUntimed(t *testing.T) {
	w := Window{}
	if w.Timed() {
		t.Error("window without start must not be timed")
	}
	if w.End() != nil {
		t.Error("untimed window must have no end")
	}
	if !w.Live(base) || !w.Open(base, 0) {
		t.Error("untimed window must always be live and open")
	}
}

func TestWindowTimed(t *testing.T) {
	start := base
	duration := 30
	w := Window{Start: &start, DurationMinutes: &duration}

	if !w.Timed() {
		t.Fatal("window with start and duration must be timed")
	}
	wantEnd := base.Add(30 * time.Minute)
	if got := w.End(); got == nil || !got.Equal(wantEnd) {
		t.Fatalf("End() = %v, want %v", got, wantEnd)
	}

	if w.Open(start.Add(-time.Second), 0) {
		t.Error("window must be shut before start")
	}
	if !w.Open(start, 0) {
		t.Error("window must be open at start")
	}
	if w.Open(wantEnd, 0) {
		t.Error("window must be shut at end")
	}
}

func TestWindowGrace(t *testing.T) {
	start := base
	duration := 30
	w := Window{Start: &start, DurationMinutes: &duration}
	end := base.Add(30 * time.Minute)
	grace := 15 * time.Second

	if !w.Open(end.Add(10*time.Second), grace) {
		t.Error("window must accept within the grace period")
	}
	if w.Open(end.Add(grace), grace) {
		t.Error("window must shut at end+grace")
	}
	if w.Open(end.Add(20*time.Minute), grace) {
		t.Error("window must stay shut well past end regardless of grace")
	}
}
