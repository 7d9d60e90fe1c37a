// Package app provides the orchestration layer for ghwatch.
//
// # Overview
//
// This package wires together configuration, logging, the gh client, the
// run store, the refresh scheduler, and the UI into the complete watcher.
// It is the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/ghwatch/config.toml
//  2. Open the rotating log file (the terminal belongs to the TUI)
//  3. Resolve the current repository through gh repo view
//  4. Capture the authenticated login and checked-out branch once, as the
//     context the user and branch filters compare against
//  5. Build the UI model with a fresh store and scheduler
//  6. Run the bubbletea program and block until quit or cancellation
//
// # Error Handling
//
// Startup errors are fatal and rendered as plain actionable messages
// before the alternate screen is entered: a missing gh binary, a missing
// login, or a directory outside any GitHub repository all abort with a
// hint. Once the UI is running, fetch failures are recoverable: they are
// logged and surfaced in the status bar while the previous snapshot stays
// on screen.
package app
