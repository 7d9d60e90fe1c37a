// Package config handles loading and parsing the ghwatch configuration file.
//
// # Overview
//
// ghwatch runs without any configuration: every field has a default and a
// missing config file is not an error. The file exists for users who want a
// different polling cadence, a larger run window, another theme, or a
// custom log location.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided (--config flag), use it
//  2. Otherwise, use ~/.config/ghwatch/config.toml
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/zero, use defaults per field
//
// # Default Values
//
//   - Config file: ~/.config/ghwatch/config.toml
//   - Poll interval: 10 seconds (measured from fetch completion)
//   - Run limit: 30 runs per refresh (clamped to GitHub's 100 ceiling)
//   - Theme: mocha
//   - Log file: ~/.local/state/ghwatch/ghwatch.log
//   - Log level: info
//
// # TOML Format
//
// Example config.toml:
//
//	poll_seconds = 5
//	run_limit = 50
//	theme = "latte"
//	log_path = "~/ghwatch.log"
//	log_level = "debug"
//
// All fields are optional. Tilde expansion is performed automatically.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors other
// than os.ErrNotExist, and TOML parsing errors. A malformed file is
// deliberately fatal: silently falling back to defaults would hide the typo
// from the user.
//
// The package is read-only and stateless: configuration is loaded once at
// startup into an immutable Config struct. Nothing is ever written back, so
// no state persists across sessions.
package config
