package session

import (
	"sync"
	"time"
)

// WarnLevel classifies how close the session is to its idle deadline.
type WarnLevel int

const (
	WarnNone WarnLevel = iota
	// WarnCoarse fires well ahead of expiry (default 30 minutes left).
	WarnCoarse
	// WarnImminent fires shortly before expiry (default 5 minutes left).
	WarnImminent
)

// Warning decides whether an expiry warning should be visible for a given
// remaining time. Signals are level-triggered: every Evaluate call recomputes
// from the remaining time alone, plus the dismissal state.
//
// Dismissal is not sticky. When the remaining time drops more than the re-arm
// slack below where it stood at dismissal, the warning comes back even though
// the user closed it. Leaving the threshold entirely (a fresh activity touch)
// clears the dismissal.
type Warning struct {
	mu sync.Mutex

	imminent   time.Duration
	coarse     time.Duration
	rearmSlack time.Duration

	dismissed   bool
	dismissedAt time.Duration // remaining time when dismissed
}

// NewWarning builds a Warning with the given thresholds.
func NewWarning(imminent, coarse, rearmSlack time.Duration) *Warning {
	return &Warning{
		imminent:   imminent,
		coarse:     coarse,
		rearmSlack: rearmSlack,
	}
}

// Evaluate returns the warning level for the given remaining idle time.
func (w *Warning) Evaluate(remaining time.Duration) WarnLevel {
	w.mu.Lock()
	defer w.mu.Unlock()

	if remaining > w.coarse {
		w.dismissed = false
		w.dismissedAt = 0
		return WarnNone
	}

	if w.dismissed {
		if w.dismissedAt-remaining > w.rearmSlack {
			w.dismissed = false
			w.dismissedAt = 0
		} else {
			return WarnNone
		}
	}

	if remaining <= w.imminent {
		return WarnImminent
	}
	return WarnCoarse
}

// Dismiss hides the warning until it re-arms. The caller passes the current
// remaining time so the re-arm drop can be measured from the dismissal point.
func (w *Warning) Dismiss(remaining time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissed = true
	w.dismissedAt = remaining
}
