package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/matonneli/bookstore-admin/internal/session"
)

func newTestClock(t *testing.T, idleLimit time.Duration) *session.Clock {
	t.Helper()
	return session.NewClock(filepath.Join(t.TempDir(), "activity.toml"), idleLimit)
}

func testWarning() *session.Warning {
	return session.NewWarning(5*time.Minute, 30*time.Minute, 10*time.Second)
}

func TestLogWarningAnonymous(t *testing.T) {
	clock := newTestClock(t, 2*time.Minute)
	got := logWarning(clock, func() bool { return false }, testWarning(), session.WarnImminent)
	if got != session.WarnNone {
		t.Fatalf("logWarning anonymous = %v, want WarnNone", got)
	}
}

func TestLogWarningLevels(t *testing.T) {
	authed := func() bool { return true }

	tests := []struct {
		name      string
		idleLimit time.Duration
		want      session.WarnLevel
	}{
		{"outside threshold", time.Hour, session.WarnNone},
		{"coarse threshold", 10 * time.Minute, session.WarnCoarse},
		{"imminent threshold", 2 * time.Minute, session.WarnImminent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newTestClock(t, tt.idleLimit)
			got := logWarning(clock, authed, testWarning(), session.WarnNone)
			if got != tt.want {
				t.Fatalf("logWarning with %v idle limit = %v, want %v", tt.idleLimit, got, tt.want)
			}
		})
	}
}

func TestLogWarningStableLevel(t *testing.T) {
	clock := newTestClock(t, 2*time.Minute)
	warning := testWarning()
	authed := func() bool { return true }

	first := logWarning(clock, authed, warning, session.WarnNone)
	second := logWarning(clock, authed, warning, first)
	if first != session.WarnImminent || second != session.WarnImminent {
		t.Fatalf("levels = %v, %v, want WarnImminent twice", first, second)
	}
}
