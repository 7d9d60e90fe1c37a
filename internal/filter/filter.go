// Package filter computes the visible run sequence from the run store.
// Everything here is pure: filters never mutate the store and never fetch.
package filter

import (
	"ghwatch/internal/gh"
)

// Set holds the independently toggleable filters. The zero value shows
// everything.
type Set struct {
	Branch bool // keep runs on the current branch
	User   bool // keep runs triggered by the current user
	Latest bool // keep only the newest run per workflow
}

// Active reports whether any filter is enabled.
func (s Set) Active() bool {
	return s.Branch || s.User || s.Latest
}

// Context carries the comparison values the filters match against. Both are
// resolved once at startup and never re-derived during the session.
type Context struct {
	Branch string
	User   string
}

// Apply returns the runs that pass every enabled filter, preserving store
// order. Filters AND-combine; latest-only runs after the others and keeps
// the single most recent run per workflow name, ties broken by start
// timestamp then by higher ID so the result is deterministic.
func Apply(runs []gh.Run, set Set, fctx Context) []gh.Run {
	out := make([]gh.Run, 0, len(runs))
	for _, run := range runs {
		if set.Branch && run.Branch != fctx.Branch {
			continue
		}
		if set.User && run.Actor != fctx.User {
			continue
		}
		out = append(out, run)
	}
	if set.Latest {
		out = latestPerWorkflow(out)
	}
	return out
}

func latestPerWorkflow(runs []gh.Run) []gh.Run {
	winners := make(map[string]gh.Run, len(runs))
	for _, run := range runs {
		best, seen := winners[run.Workflow]
		if !seen || newer(run, best) {
			winners[run.Workflow] = run
		}
	}

	out := make([]gh.Run, 0, len(winners))
	emitted := make(map[string]bool, len(winners))
	for _, run := range runs {
		if emitted[run.Workflow] {
			continue
		}
		emitted[run.Workflow] = true
		out = append(out, winners[run.Workflow])
	}
	return out
}

// newer reports whether a should win over b as the most recent run of a
// workflow.
func newer(a, b gh.Run) bool {
	if !a.StartedAt.Equal(b.StartedAt) {
		return a.StartedAt.After(b.StartedAt)
	}
	return a.ID > b.ID
}
