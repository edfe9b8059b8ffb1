package app

import (
	"context"
	"time"

	"github.com/matonneli/bookstore-admin/internal/logging"
	"github.com/matonneli/bookstore-admin/internal/session"
)

const defaultWarningPoll = 30 * time.Second

// startWarningLogger launches a background goroutine that samples the idle
// clock at a coarse cadence and logs expiry warnings. It returns immediately.
// The interactive banner runs on its own finer tick inside the UI; this poller
// is the audit trail of the same level-triggered signal.
func startWarningLogger(ctx context.Context, clock *session.Clock, authenticated func() bool, warning *session.Warning, interval time.Duration) {
	if interval <= 0 {
		interval = defaultWarningPoll
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last session.WarnLevel
		for {
			last = logWarning(clock, authenticated, warning, last)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func logWarning(clock *session.Clock, authenticated func() bool, warning *session.Warning, last session.WarnLevel) session.WarnLevel {
	if !authenticated() {
		return session.WarnNone
	}

	remaining := clock.Remaining()
	level := warning.Evaluate(remaining)
	if level == last {
		return level
	}

	log := logging.Get()
	switch level {
	case session.WarnImminent:
		log.Warn().Dur("remaining", remaining).Msg("session expires imminently")
	case session.WarnCoarse:
		log.Info().Dur("remaining", remaining).Msg("session expiry approaching")
	}
	return level
}
