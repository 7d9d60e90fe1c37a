package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghwatch/internal/filter"
	"ghwatch/internal/gh"
	"ghwatch/internal/poll"
	"ghwatch/internal/store"
)

type fakeFetcher struct {
	runs     []gh.Run
	runsErr  error
	logs     map[int64][]string
	logErr   error
	logCalls []int64
	browsed  []int64
}

func (f *fakeFetcher) FetchRuns(context.Context) ([]gh.Run, error) {
	return f.runs, f.runsErr
}

func (f *fakeFetcher) FetchLog(_ context.Context, runID int64) ([]string, error) {
	f.logCalls = append(f.logCalls, runID)
	if f.logErr != nil {
		return nil, f.logErr
	}
	return f.logs[runID], nil
}

func (f *fakeFetcher) OpenInBrowser(_ context.Context, runID int64) error {
	f.browsed = append(f.browsed, runID)
	return nil
}

func (f *fakeFetcher) Repo() gh.RepoInfo {
	return gh.RepoInfo{Owner: "octo", Name: "widgets"}
}

func testRun(id int64, workflow string) gh.Run {
	return gh.Run{
		ID:        id,
		Workflow:  workflow,
		Branch:    "main",
		Actor:     "octocat",
		Status:    gh.StatusSuccess,
		StartedAt: time.Date(2026, 8, 1, 12, 0, 0, int(id), time.UTC),
		HTMLURL:   "https://example.test/runs",
	}
}

// newTestModel builds a model, starts the first fetch through Init, and
// delivers its snapshot, leaving the model in list view with runs visible.
func newTestModel(t *testing.T, fetch *fakeFetcher) (Model, *poll.Scheduler) {
	t.Helper()

	sched := poll.NewScheduler(time.Minute)
	m := New(Options{
		Client:    fetch,
		Scheduler: sched,
	})
	m.width = 100
	m.height = 30

	require.NotNil(t, m.Init())
	require.True(t, sched.InFlight(), "Init must start a fetch")

	m = deliver(t, m, runsFetchedMsg{gen: 1, runs: fetch.runs, err: fetch.runsErr})
	return m, sched
}

func deliver(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestInitialSnapshotPopulatesList(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build"), testRun(2, "deploy")}}
	m, _ := newTestModel(t, fetch)

	assert.Len(t, m.visible, 2)
	assert.Equal(t, int64(1), m.selectedID, "first run selected by default")
	assert.Equal(t, 0, m.cursor)
	assert.Nil(t, m.details)
}

func TestNavigateIntoDetailsAndBack(t *testing.T) {
	fetch := &fakeFetcher{
		runs: []gh.Run{testRun(1, "build"), testRun(2, "deploy"), testRun(3, "release")},
		logs: map[int64][]string{3: {"line one", "line two"}},
	}
	m, _ := newTestModel(t, fetch)

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	require.Equal(t, int64(3), m.selectedID)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, m.details)
	assert.Equal(t, int64(3), m.details.runID)
	require.NotNil(t, cmd, "opening details must start a log fetch")

	m = deliver(t, m, cmd().(logFetchedMsg))
	assert.Equal(t, []int64{3}, fetch.logCalls, "exactly one log fetch")
	assert.Equal(t, store.LogReady, m.store.Log(3).Phase)

	m, _ = press(t, m, "esc")
	assert.Nil(t, m.details)
	assert.Equal(t, int64(3), m.selectedID, "selection survives the round trip")
}

func TestReopenDetailsDoesNotRefetchLog(t *testing.T) {
	fetch := &fakeFetcher{
		runs: []gh.Run{testRun(1, "build")},
		logs: map[int64][]string{1: {"done"}},
	}
	m, _ := newTestModel(t, fetch)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m, cmd().(logFetchedMsg))
	m, _ = press(t, m, "esc")

	m, cmd = press(t, m, "enter")
	assert.Nil(t, cmd, "cached log must not be fetched again")
	assert.Len(t, fetch.logCalls, 1)
}

func TestFailedLogFetchIsRetried(t *testing.T) {
	fetch := &fakeFetcher{
		runs:   []gh.Run{testRun(1, "build")},
		logErr: errors.New("boom"),
	}
	m, _ := newTestModel(t, fetch)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m, cmd().(logFetchedMsg))
	assert.Equal(t, store.LogFailed, m.store.Log(1).Phase)

	m, _ = press(t, m, "esc")
	fetch.logErr = nil
	fetch.logs = map[int64][]string{1: {"ok now"}}

	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd, "a failed log fetch must be retried on reopen")
	m = deliver(t, m, cmd().(logFetchedMsg))
	assert.Equal(t, store.LogReady, m.store.Log(1).Phase)
}

func TestSelectionFollowsRunAcrossReconcile(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build"), testRun(2, "deploy")}}
	m, sched := newTestModel(t, fetch)

	m, _ = press(t, m, "j")
	require.Equal(t, int64(2), m.selectedID)

	// New run appears at the top; the selected run shifts down a slot.
	_, gen, ok := sched.Begin(context.Background())
	require.True(t, ok)
	m = deliver(t, m, runsFetchedMsg{gen: gen, runs: []gh.Run{
		testRun(9, "nightly"), testRun(1, "build"), testRun(2, "deploy"),
	}})

	assert.Equal(t, int64(2), m.selectedID)
	assert.Equal(t, 2, m.cursor)
}

func TestDetailsForcedClosedWhenRunRemoved(t *testing.T) {
	fetch := &fakeFetcher{
		runs: []gh.Run{testRun(1, "build"), testRun(2, "deploy")},
		logs: map[int64][]string{2: {"log"}},
	}
	m, sched := newTestModel(t, fetch)

	m, _ = press(t, m, "j")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m, cmd().(logFetchedMsg))

	_, gen, ok := sched.Begin(context.Background())
	require.True(t, ok)
	m = deliver(t, m, runsFetchedMsg{gen: gen, runs: []gh.Run{testRun(1, "build")}})

	assert.Nil(t, m.details, "details of a removed run must close")
	assert.Equal(t, store.LogAbsent, m.store.Log(2).Phase, "log dropped with the run")
}

func TestStaleFetchResultIsDiscarded(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, sched := newTestModel(t, fetch)

	_, staleGen, ok := sched.Begin(context.Background())
	require.True(t, ok)

	// Manual refresh cancels the pending fetch and starts a fresh one.
	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	require.True(t, sched.InFlight())

	m = deliver(t, m, runsFetchedMsg{gen: staleGen, runs: []gh.Run{testRun(99, "ghost")}})
	_, found := m.store.Get(99)
	assert.False(t, found, "cancelled fetch result must not touch the store")
	assert.True(t, sched.InFlight(), "fresh fetch stays pending")
}

func TestTickWhileInFlightIsCoalesced(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, sched := newTestModel(t, fetch)

	_, _, ok := sched.Begin(context.Background())
	require.True(t, ok)

	_, cmd := m.Update(tickMsg{gen: sched.Gen()})
	assert.Nil(t, cmd, "tick during a pending fetch must not start another")
}

func TestManualRefreshInvalidatesPendingTick(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, sched := newTestModel(t, fetch)
	armedGen := sched.Gen() // the tick armed when the boot fetch completed

	// Manual refresh while idle starts a new chain; its completion arms a
	// second tick.
	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	m = deliver(t, m, runsFetchedMsg{gen: sched.Gen(), runs: fetch.runs})
	require.False(t, sched.InFlight())

	_, cmd = m.Update(tickMsg{gen: armedGen})
	assert.Nil(t, cmd, "tick armed before the refresh must not start a fetch")
	assert.False(t, sched.InFlight(), "abandoned chain must stay dead")

	_, cmd = m.Update(tickMsg{gen: sched.Gen()})
	require.NotNil(t, cmd, "current chain still drives the cadence")
	assert.True(t, sched.InFlight())
}

func TestRefreshWorksInDetailsView(t *testing.T) {
	fetch := &fakeFetcher{
		runs: []gh.Run{testRun(1, "build")},
		logs: map[int64][]string{1: {"log"}},
	}
	m, sched := newTestModel(t, fetch)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m, cmd().(logFetchedMsg))
	require.NotNil(t, m.details)

	m, cmd = press(t, m, "r")
	require.NotNil(t, cmd, "refresh must work with details open")
	assert.True(t, sched.InFlight())
	assert.NotNil(t, m.details, "details stay open across a manual refresh")
}

func TestFailedRefreshKeepsPreviousRuns(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, sched := newTestModel(t, fetch)

	_, gen, ok := sched.Begin(context.Background())
	require.True(t, ok)
	m = deliver(t, m, runsFetchedMsg{gen: gen, err: errors.New("gh: network unreachable")})

	assert.Error(t, m.refreshErr)
	assert.Len(t, m.visible, 1, "previous snapshot stays on screen")
}

func TestFilterTogglesRecomputeVisible(t *testing.T) {
	other := testRun(2, "deploy")
	other.Branch = "feature"
	other.Actor = "someone-else"
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build"), other}}

	sched := poll.NewScheduler(time.Minute)
	m := New(Options{
		Client:        fetch,
		Scheduler:     sched,
		FilterContext: filter.Context{Branch: "main", User: "octocat"},
	})
	m.width = 100
	m.height = 30
	require.NotNil(t, m.Init())
	m = deliver(t, m, runsFetchedMsg{gen: 1, runs: fetch.runs})
	require.Len(t, m.visible, 2)

	m, _ = press(t, m, "b")
	assert.Len(t, m.visible, 1)
	assert.Equal(t, int64(1), m.visible[0].ID)

	m, _ = press(t, m, "u")
	assert.Len(t, m.visible, 1, "filters combine with AND")

	m, _ = press(t, m, "b")
	m, _ = press(t, m, "u")
	assert.Len(t, m.visible, 2, "toggling off restores the full sequence")
}

func TestFilterToInvisibleSelectionFallsBack(t *testing.T) {
	other := testRun(2, "deploy")
	other.Branch = "feature"
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build"), other}}

	sched := poll.NewScheduler(time.Minute)
	m := New(Options{
		Client:        fetch,
		Scheduler:     sched,
		FilterContext: filter.Context{Branch: "main"},
	})
	m.width = 100
	m.height = 30
	require.NotNil(t, m.Init())
	m = deliver(t, m, runsFetchedMsg{gen: 1, runs: fetch.runs})

	m, _ = press(t, m, "j")
	require.Equal(t, int64(2), m.selectedID)

	m, _ = press(t, m, "b")
	assert.Equal(t, int64(1), m.selectedID, "hidden selection falls back to a visible run")
}

func TestQuitCancelsInFlightFetch(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, sched := newTestModel(t, fetch)

	_, _, ok := sched.Begin(context.Background())
	require.True(t, ok)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.False(t, sched.InFlight(), "quit must cancel the pending fetch")
}

func TestBrowseOpensSelectedRun(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build")}}
	m, _ := newTestModel(t, fetch)

	_, cmd := press(t, m, "o")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []int64{1}, fetch.browsed)
}

func TestViewRendersRunTable(t *testing.T) {
	fetch := &fakeFetcher{runs: []gh.Run{testRun(1, "build"), testRun(2, "deploy")}}
	m, _ := newTestModel(t, fetch)

	out := m.View()
	assert.Contains(t, out, "WORKFLOW")
	assert.Contains(t, out, "build")
	assert.Contains(t, out, "deploy")
	assert.Contains(t, out, "octo/widgets")
}

func TestViewRendersLogWindow(t *testing.T) {
	fetch := &fakeFetcher{
		runs: []gh.Run{testRun(1, "build")},
		logs: map[int64][]string{1: {"first log line", "second log line"}},
	}
	m, _ := newTestModel(t, fetch)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m, cmd().(logFetchedMsg))

	out := m.View()
	assert.Contains(t, out, "first log line")
	assert.Contains(t, out, "second log line")
}
