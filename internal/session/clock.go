package session

import (
	"sync"
	"time"

	"github.com/matonneli/bookstore-admin/internal/logging"
)

// Clock tracks the last user activity and derives the remaining idle time.
// The last-activity value is persisted to a shared state file so every
// running instance of the client enforces the same deadline.
type Clock struct {
	mu           sync.Mutex
	path         string
	idleLimit    time.Duration
	lastActivity time.Time
	loginTime    time.Time

	now func() time.Time
}

// NewClock builds a Clock over the given activity file. Persisted state is
// adopted when present; otherwise the clock starts from now.
func NewClock(path string, idleLimit time.Duration) *Clock {
	c := &Clock{
		path:      path,
		idleLimit: idleLimit,
		now:       time.Now,
	}
	last, login := loadActivity(path)
	if last.IsZero() {
		last = c.now()
	}
	c.lastActivity = last
	c.loginTime = login
	return c
}

// Touch records now as the last activity time and persists it. Persistence
// failures are logged, not returned: the in-memory deadline still moved.
func (c *Clock) Touch(reason string) {
	c.mu.Lock()
	c.lastActivity = c.now()
	last, login := c.lastActivity, c.loginTime
	c.mu.Unlock()

	logger := logging.Get()
	logger.Debug().Str("reason", reason).Time("at", last).Msg("activity touched")
	if err := saveActivity(c.path, last, login); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("persist activity failed")
	}
}

// Remaining returns how much idle time is left before forced logout. It is
// recomputed from the stored timestamp and the wall clock on every call.
func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.now().Sub(c.lastActivity)
	if remaining := c.idleLimit - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// Adopt reconciles an externally observed activity time. The newest value
// wins; a stale external value never regresses the deadline.
func (c *Clock) Adopt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.lastActivity) {
		c.lastActivity = t
	}
}

// Reload re-reads the shared state file and adopts any newer activity time
// another instance has written.
func (c *Clock) Reload() {
	last, _ := loadActivity(c.path)
	if !last.IsZero() {
		c.Adopt(last)
	}
}

// MarkLogin records the session start time. Display-only state.
func (c *Clock) MarkLogin() {
	c.mu.Lock()
	c.loginTime = c.now()
	last, login := c.lastActivity, c.loginTime
	c.mu.Unlock()

	if err := saveActivity(c.path, last, login); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("persist login time failed")
	}
}

// LoginTime returns the recorded session start, zero when unknown.
func (c *Clock) LoginTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginTime
}

// LastActivity returns the current last-activity timestamp.
func (c *Clock) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// Reset clears persisted state and restarts the clock from now. Called on
// logout so a later login starts with a fresh deadline.
func (c *Clock) Reset() {
	c.mu.Lock()
	c.lastActivity = c.now()
	c.loginTime = time.Time{}
	c.mu.Unlock()

	if err := clearActivity(c.path); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("clear activity state failed")
	}
}
