package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings the admin client needs. Every timing value is
// a tunable default, not a behavioral invariant; the idle limit is the one
// number the session layer treats as policy.
type Config struct {
	APIBase  string
	StateDir string
	LogLevel string

	IdleLimit      time.Duration
	ExpiryPoll     time.Duration
	WarningPoll    time.Duration
	WarnImminent   time.Duration
	WarnCoarse     time.Duration
	RearmSlack     time.Duration
	SearchDebounce time.Duration

	BookPageSize  int
	OrderPageSize int
}

const (
	defaultConfigPath = "~/.config/bookadm/config.toml"
	defaultStateDir   = "~/.local/state/bookadm"
	defaultAPIBase    = "127.0.0.1:8081"
	defaultLogLevel   = "info"

	defaultIdleLimit      = 60 * time.Minute
	defaultExpiryPoll     = time.Second
	defaultWarningPoll    = 30 * time.Second
	defaultWarnImminent   = 5 * time.Minute
	defaultWarnCoarse     = 30 * time.Minute
	defaultRearmSlack     = 10 * time.Second
	defaultSearchDebounce = 300 * time.Millisecond

	defaultBookPageSize  = 10
	defaultOrderPageSize = 20
)

// Load locates and parses the client config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.StateDir = mustExpand(defaultStateDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase          string `toml:"api_base"`
		StateDir         string `toml:"state_dir"`
		LogLevel         string `toml:"log_level"`
		IdleLimitMin     int    `toml:"idle_limit_minutes"`
		ExpiryPollSec    int    `toml:"expiry_poll_seconds"`
		WarningPollSec   int    `toml:"warning_poll_seconds"`
		WarnImminentMin  int    `toml:"warn_imminent_minutes"`
		WarnCoarseMin    int    `toml:"warn_coarse_minutes"`
		RearmSlackSec    int    `toml:"rearm_slack_seconds"`
		SearchDebounceMS int    `toml:"search_debounce_ms"`
		BookPageSize     int    `toml:"book_page_size"`
		OrderPageSize    int    `toml:"order_page_size"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.StateDir); v != "" {
		cfg.StateDir = v
	}
	cfg.StateDir = mustExpand(cfg.StateDir)
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}

	if raw.IdleLimitMin > 0 {
		cfg.IdleLimit = time.Duration(raw.IdleLimitMin) * time.Minute
	}
	if raw.ExpiryPollSec > 0 {
		cfg.ExpiryPoll = time.Duration(raw.ExpiryPollSec) * time.Second
	}
	if raw.WarningPollSec > 0 {
		cfg.WarningPoll = time.Duration(raw.WarningPollSec) * time.Second
	}
	if raw.WarnImminentMin > 0 {
		cfg.WarnImminent = time.Duration(raw.WarnImminentMin) * time.Minute
	}
	if raw.WarnCoarseMin > 0 {
		cfg.WarnCoarse = time.Duration(raw.WarnCoarseMin) * time.Minute
	}
	if raw.RearmSlackSec > 0 {
		cfg.RearmSlack = time.Duration(raw.RearmSlackSec) * time.Second
	}
	if raw.SearchDebounceMS > 0 {
		cfg.SearchDebounce = time.Duration(raw.SearchDebounceMS) * time.Millisecond
	}
	if raw.BookPageSize > 0 {
		cfg.BookPageSize = raw.BookPageSize
	}
	if raw.OrderPageSize > 0 {
		cfg.OrderPageSize = raw.OrderPageSize
	}

	return cfg, nil
}

// LogPath returns the path to the client log file.
func (c Config) LogPath() string {
	dir := c.StateDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultStateDir)
	}
	return filepath.Join(dir, "bookadm.log")
}

// ActivityPath returns the path to the shared activity state file.
func (c Config) ActivityPath() string {
	dir := c.StateDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultStateDir)
	}
	return filepath.Join(dir, "activity.toml")
}

func defaults() Config {
	return Config{
		APIBase:        defaultAPIBase,
		StateDir:       defaultStateDir,
		LogLevel:       defaultLogLevel,
		IdleLimit:      defaultIdleLimit,
		ExpiryPoll:     defaultExpiryPoll,
		WarningPoll:    defaultWarningPoll,
		WarnImminent:   defaultWarnImminent,
		WarnCoarse:     defaultWarnCoarse,
		RearmSlack:     defaultRearmSlack,
		SearchDebounce: defaultSearchDebounce,
		BookPageSize:   defaultBookPageSize,
		OrderPageSize:  defaultOrderPageSize,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
