// Package gh adapts the GitHub CLI into typed run and log data.
//
// # Overview
//
// This package is the data source for the watcher. It shells out to the gh
// CLI (and to git for the current branch), decodes the JSON payloads into
// the Run model, and classifies failures into the error taxonomy the rest
// of the application branches on. It is pure translation: no caching, no
// retries, no background work.
//
// # Operations
//
//   - NewClient: resolves the repository for the working directory via
//     `gh repo view` and binds a client to it
//   - Client.FetchRuns: `gh api repos/{owner}/{repo}/actions/runs`
//   - Client.FetchLog: jobs listing plus per-job raw logs, concatenated
//   - CurrentLogin: parses `gh auth status` for the authenticated account
//   - CurrentBranch: `git rev-parse --abbrev-ref HEAD`
//
// Both fetch operations are synchronous; the refresh scheduler invokes them
// from a background goroutine so the UI loop never blocks on a child
// process. Commands run under exec.CommandContext, so cancelling the
// context kills a hung gh invocation.
//
// # Error Taxonomy
//
//   - ErrMissing: gh is not installed (startup-fatal)
//   - ErrUnauthenticated: gh has no logged-in account (startup-fatal)
//   - ErrNoRepository: the working directory has no GitHub repository
//     (startup-fatal)
//   - ExitError: gh ran and exited non-zero; carries captured stderr
//   - ParseError: gh produced output the decoder could not handle
//
// ExitError and ParseError during a refresh are recoverable: the caller
// keeps the previous snapshot and surfaces the failure in the status bar.
package gh
