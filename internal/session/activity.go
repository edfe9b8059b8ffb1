package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// activityRecord is the on-disk shape of the shared activity state. Every
// running client instance reads and writes the same file, which is what makes
// the idle deadline consistent across windows.
type activityRecord struct {
	LastActivityMS int64 `toml:"last_activity_ms"`
	LoginTimeMS    int64 `toml:"login_time_ms"`
}

// loadActivity reads the persisted activity state. A missing or unreadable
// file yields zero times rather than an error so a fresh start works without
// state.
func loadActivity(path string) (lastActivity, loginTime time.Time) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, time.Time{}
	}

	var record activityRecord
	if err := toml.Unmarshal(bytes, &record); err != nil {
		return time.Time{}, time.Time{}
	}

	if record.LastActivityMS > 0 {
		lastActivity = time.UnixMilli(record.LastActivityMS)
	}
	if record.LoginTimeMS > 0 {
		loginTime = time.UnixMilli(record.LoginTimeMS)
	}
	return lastActivity, loginTime
}

// saveActivity writes the activity state, creating directories as needed.
func saveActivity(path string, lastActivity, loginTime time.Time) error {
	record := activityRecord{}
	if !lastActivity.IsZero() {
		record.LastActivityMS = lastActivity.UnixMilli()
	}
	if !loginTime.IsZero() {
		record.LoginTimeMS = loginTime.UnixMilli()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	bytes, err := toml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal activity state: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write activity state: %w", err)
	}
	return nil
}

// clearActivity removes the persisted state. Missing files are fine.
func clearActivity(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove activity state: %w", err)
	}
	return nil
}
