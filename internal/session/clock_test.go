package session

import (
	"path/filepath"
	"testing"
	"time"
)

func testClock(t *testing.T, idleLimit time.Duration) (*Clock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.toml")
	return NewClock(path, idleLimit), path
}

func TestRemainingCountsDown(t *testing.T) {
	clock, _ := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("test")

	clock.now = func() time.Time { return base.Add(20 * time.Minute) }
	got := clock.Remaining()
	if got != 40*time.Minute {
		t.Fatalf("Remaining() = %v, want 40m", got)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	clock, _ := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("test")

	clock.now = func() time.Time { return base.Add(2 * time.Hour) }
	if got := clock.Remaining(); got != 0 {
		t.Fatalf("Remaining() past limit = %v, want 0", got)
	}
}

func TestTouchExtendsDeadline(t *testing.T) {
	clock, _ := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("first")

	clock.now = func() time.Time { return base.Add(50 * time.Minute) }
	clock.Touch("second")

	clock.now = func() time.Time { return base.Add(55 * time.Minute) }
	if got := clock.Remaining(); got != 55*time.Minute {
		t.Fatalf("Remaining() after re-touch = %v, want 55m", got)
	}
}

func TestPersistedActivitySurvivesRestart(t *testing.T) {
	clock, path := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("test")
	clock.MarkLogin()

	reborn := NewClock(path, time.Hour)
	if got := reborn.LastActivity().UnixMilli(); got != base.UnixMilli() {
		t.Fatalf("LastActivity after restart = %d, want %d", got, base.UnixMilli())
	}
	if reborn.LoginTime().IsZero() {
		t.Fatal("LoginTime lost across restart")
	}
}

func TestAdoptNewestWins(t *testing.T) {
	clock, _ := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("local")

	// A stale external value must not regress the deadline.
	clock.Adopt(base.Add(-10 * time.Minute))
	if got := clock.LastActivity(); !got.Equal(base) {
		t.Fatalf("Adopt regressed activity to %v", got)
	}

	newer := base.Add(10 * time.Minute)
	clock.Adopt(newer)
	if got := clock.LastActivity(); !got.Equal(newer) {
		t.Fatalf("Adopt ignored newer activity, got %v", got)
	}
}

func TestReloadAdoptsExternalTouch(t *testing.T) {
	clock, path := testClock(t, time.Hour)

	base := time.Now()
	clock.now = func() time.Time { return base }
	clock.Touch("local")

	// Simulate another instance touching later.
	external := base.Add(30 * time.Minute)
	if err := saveActivity(path, external, time.Time{}); err != nil {
		t.Fatalf("saveActivity: %v", err)
	}

	clock.Reload()
	if got := clock.LastActivity().UnixMilli(); got != external.UnixMilli() {
		t.Fatalf("Reload did not adopt external touch, got %d want %d", got, external.UnixMilli())
	}
}

func TestResetClearsState(t *testing.T) {
	clock, path := testClock(t, time.Hour)
	clock.Touch("test")
	clock.MarkLogin()

	clock.Reset()

	if !clock.LoginTime().IsZero() {
		t.Fatal("Reset kept login time")
	}
	last, login := loadActivity(path)
	if !last.IsZero() || !login.IsZero() {
		t.Fatalf("Reset left persisted state: last=%v login=%v", last, login)
	}
}

func TestLoadActivityMissingFile(t *testing.T) {
	last, login := loadActivity(filepath.Join(t.TempDir(), "nope.toml"))
	if !last.IsZero() || !login.IsZero() {
		t.Fatalf("missing file yielded %v, %v, want zero times", last, login)
	}
}
