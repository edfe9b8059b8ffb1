// Package config handles loading and parsing the bookadm client configuration.
//
// # Overview
//
// This package reads a TOML file describing the admin backend endpoint, the
// client state directory, and the timing knobs of the session layer. All
// timing values are tunable defaults: the debounce and poll intervals carry
// no behavioral meaning beyond bounding enforcement slack, while the idle
// limit is the session-termination policy itself.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/bookadm/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/bookadm/config.toml
//   - API endpoint: 127.0.0.1:8081
//   - State directory: ~/.local/state/bookadm
//   - Idle limit: 60 minutes
//   - Expiry poll: 1 second; warning poll: 30 seconds
//   - Warning thresholds: 5 minutes (imminent), 30 minutes (coarse)
//   - Warning re-arm slack: 10 seconds
//   - Search debounce: 300 milliseconds
//   - Page sizes: 10 (books), 20 (orders)
//
// # TOML Format
//
// Example config.toml:
//
//	api_base = "127.0.0.1:8081"
//	state_dir = "~/.local/state/bookadm"
//	log_level = "debug"
//	idle_limit_minutes = 60
//	search_debounce_ms = 300
//
// All fields are optional. Tilde expansion is performed automatically.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults) and TOML parsing errors. A missing
// config file is NOT an error, so the client works out-of-the-box against a
// backend on the default local port.
package config
