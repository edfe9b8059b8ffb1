package session

import (
	"testing"
	"time"
)

func newTestWarning() *Warning {
	return NewWarning(5*time.Minute, 30*time.Minute, 10*time.Second)
}

func TestEvaluateThresholds(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      WarnLevel
	}{
		{"well outside", time.Hour, WarnNone},
		{"just outside coarse", 30*time.Minute + time.Second, WarnNone},
		{"at coarse", 30 * time.Minute, WarnCoarse},
		{"between thresholds", 15 * time.Minute, WarnCoarse},
		{"at imminent", 5 * time.Minute, WarnImminent},
		{"nearly expired", time.Second, WarnImminent},
		{"expired", 0, WarnImminent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestWarning().Evaluate(tt.remaining); got != tt.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tt.remaining, got, tt.want)
			}
		})
	}
}

func TestDismissSuppressesWarning(t *testing.T) {
	w := newTestWarning()

	if got := w.Evaluate(20 * time.Minute); got != WarnCoarse {
		t.Fatalf("before dismissal = %v, want WarnCoarse", got)
	}

	w.Dismiss(20 * time.Minute)
	if got := w.Evaluate(20*time.Minute - 5*time.Second); got != WarnNone {
		t.Fatalf("within slack after dismissal = %v, want WarnNone", got)
	}
}

func TestDismissRearmsAfterSlack(t *testing.T) {
	w := newTestWarning()
	w.Evaluate(20 * time.Minute)
	w.Dismiss(20 * time.Minute)

	// Time keeps draining past the re-arm slack: the warning comes back.
	if got := w.Evaluate(20*time.Minute - 11*time.Second); got != WarnCoarse {
		t.Fatalf("past slack after dismissal = %v, want WarnCoarse", got)
	}
}

func TestActivityClearsDismissal(t *testing.T) {
	w := newTestWarning()
	w.Evaluate(10 * time.Minute)
	w.Dismiss(10 * time.Minute)

	// A touch pushed remaining back above the threshold.
	if got := w.Evaluate(time.Hour); got != WarnNone {
		t.Fatalf("outside threshold = %v, want WarnNone", got)
	}

	// Dropping back in warns again immediately: dismissal was cleared.
	if got := w.Evaluate(29 * time.Minute); got != WarnCoarse {
		t.Fatalf("re-entry after clearing = %v, want WarnCoarse", got)
	}
}

func TestDismissedCoarseStillEscalates(t *testing.T) {
	w := newTestWarning()
	w.Evaluate(6 * time.Minute)
	w.Dismiss(6 * time.Minute)

	// Crossing into imminent drains more than the slack, so the dismissal
	// has re-armed by then.
	if got := w.Evaluate(4 * time.Minute); got != WarnImminent {
		t.Fatalf("escalation past dismissal = %v, want WarnImminent", got)
	}
}
