package store

import (
	"ghwatch/internal/gh"
)

// Diff reports what changed during one reconciliation, by run ID.
type Diff struct {
	Added   []int64
	Removed []int64
	Updated []int64
}

// Empty reports whether the reconciliation changed nothing.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0
}

// LogPhase tracks the lifecycle of a run's lazily-fetched log.
type LogPhase int

const (
	LogAbsent LogPhase = iota
	LogLoading
	LogReady
	LogFailed
)

// LogState is the details blob for one run. A failed fetch keeps its error
// for display and is retried on the next open; it never poisons the run.
type LogState struct {
	Phase LogPhase
	Lines []string
	Err   error
}

// Store holds the last known-good snapshot of workflow runs in fetch order,
// plus the per-run log blobs. It is owned by the UI goroutine: background
// fetches hand over immutable values and never touch it directly, so there
// is no lock.
type Store struct {
	order []int64
	runs  map[int64]gh.Run
	logs  map[int64]LogState
}

// New returns an empty store.
func New() *Store {
	return &Store{
		runs: make(map[int64]gh.Run),
		logs: make(map[int64]LogState),
	}
}

// Len returns the number of runs currently held.
func (s *Store) Len() int { return len(s.order) }

// Runs returns the runs in snapshot order. The slice is freshly allocated;
// callers may keep it across later reconciliations.
func (s *Store) Runs() []gh.Run {
	out := make([]gh.Run, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	return out
}

// Get returns the run with the given ID.
func (s *Store) Get(id int64) (gh.Run, bool) {
	run, ok := s.runs[id]
	return run, ok
}

// Reconcile swaps in a new snapshot and reports the difference against the
// previous one. Identity is the run ID; a run present in both snapshots
// with any changed field counts as updated. Log blobs survive for runs that
// survive and are dropped with the runs that vanish. Reconciling the same
// snapshot twice yields an empty diff on the second call.
func (s *Store) Reconcile(snapshot []gh.Run) Diff {
	var diff Diff

	next := make(map[int64]gh.Run, len(snapshot))
	nextOrder := make([]int64, 0, len(snapshot))
	for _, run := range snapshot {
		if _, dup := next[run.ID]; dup {
			continue
		}
		next[run.ID] = run
		nextOrder = append(nextOrder, run.ID)

		prev, existed := s.runs[run.ID]
		switch {
		case !existed:
			diff.Added = append(diff.Added, run.ID)
		case !runEqual(prev, run):
			diff.Updated = append(diff.Updated, run.ID)
		}
	}

	for _, id := range s.order {
		if _, kept := next[id]; !kept {
			diff.Removed = append(diff.Removed, id)
			delete(s.logs, id)
		}
	}

	s.order = nextOrder
	s.runs = next
	return diff
}

// Log returns the details blob state for a run.
func (s *Store) Log(id int64) LogState {
	return s.logs[id]
}

// BeginLogFetch marks a run's log as loading and reports whether a fetch
// should actually be started. Returns false when the log is already loading
// or ready, so opening details twice never doubles the fetch. A previous
// failure is cleared and retried.
func (s *Store) BeginLogFetch(id int64) bool {
	if _, ok := s.runs[id]; !ok {
		return false
	}
	switch s.logs[id].Phase {
	case LogLoading, LogReady:
		return false
	}
	s.logs[id] = LogState{Phase: LogLoading}
	return true
}

// SetLog stores a successfully fetched log for a run. The result of a fetch
// for a run that has since vanished is discarded.
func (s *Store) SetLog(id int64, lines []string) {
	if _, ok := s.runs[id]; !ok {
		delete(s.logs, id)
		return
	}
	s.logs[id] = LogState{Phase: LogReady, Lines: lines}
}

// SetLogError records a failed log fetch so the details panel can show it.
func (s *Store) SetLogError(id int64, err error) {
	if _, ok := s.runs[id]; !ok {
		delete(s.logs, id)
		return
	}
	s.logs[id] = LogState{Phase: LogFailed, Err: err}
}

// runEqual compares the fields that matter for UI churn. Timestamps use
// time.Equal so wall-clock representations do not cause spurious updates.
func runEqual(a, b gh.Run) bool {
	return a.ID == b.ID &&
		a.Workflow == b.Workflow &&
		a.Branch == b.Branch &&
		a.Actor == b.Actor &&
		a.Status == b.Status &&
		a.StartedAt.Equal(b.StartedAt) &&
		a.Duration == b.Duration &&
		a.HTMLURL == b.HTMLURL
}
