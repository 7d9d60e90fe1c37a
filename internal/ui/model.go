package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ghwatch/internal/filter"
	"ghwatch/internal/gh"
	"ghwatch/internal/poll"
	"ghwatch/internal/store"
)

// Options configure the UI model.
type Options struct {
	Context       context.Context
	Client        Fetcher
	Store         *store.Store
	Scheduler     *poll.Scheduler
	Filters       filter.Set
	FilterContext filter.Context
	Logger        *zap.Logger
	Theme         string
	Version       string
}

// Model is the single bubbletea model: the event loop applies keyboard,
// timer, and fetch-completion messages to it one at a time, so all state
// transitions are atomic with respect to rendering.
type Model struct {
	ctx    context.Context
	client Fetcher
	store  *store.Store
	sched  *poll.Scheduler
	log    *zap.Logger

	filters filter.Set
	fctx    filter.Context

	keys   keyMap
	styles styles
	help   help.Model
	spin   spinner.Model

	// Derived view state. visible is recomputed from the store on every
	// reconcile and filter toggle; selection follows the run identifier,
	// not its position.
	visible    []gh.Run
	selectedID int64
	cursor     int
	listScroll int
	details    *detailsState

	width   int
	height  int
	version string

	lastUpdated time.Time
	refreshErr  error
	notice      string
}

// New builds the model. Store and Scheduler fall back to fresh instances,
// Logger to a no-op logger.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Store == nil {
		opts.Store = store.New()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = poll.NewScheduler(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	st := newStyles(opts.Theme)
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        opts.Context,
		client:     opts.Client,
		store:      opts.Store,
		sched:      opts.Scheduler,
		log:        opts.Logger,
		filters:    opts.Filters,
		fctx:       opts.FilterContext,
		keys:       defaultKeyMap(),
		styles:     st,
		help:       help.New(),
		spin:       sp,
		selectedID: noSelection,
		cursor:     -1,
		version:    opts.Version,
	}
}

// Init kicks off the first snapshot fetch immediately.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.beginRefresh(), m.spin.Tick)
}

// Update applies one event as one atomic state transition.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.listScroll = scrollTo(m.listScroll, m.cursor, m.listHeight())
		if m.details != nil {
			m.details.scroll = clampScroll(m.details.scroll, len(m.detailLines()), m.detailHeight())
		}
		return m, nil

	case tea.KeyMsg:
		if m.details != nil {
			return m.updateDetailsKeys(msg)
		}
		return m.updateListKeys(msg)

	case tickMsg:
		// A tick armed before a manual refresh belongs to an abandoned
		// chain; acting on it would double the polling cadence. A tick
		// that fires while a fetch is pending is likewise dropped; the
		// pending fetch's completion schedules the next one.
		if msg.gen != m.sched.Gen() {
			return m, nil
		}
		if cmd := m.beginRefresh(); cmd != nil {
			return m, cmd
		}
		return m, nil

	case runsFetchedMsg:
		return m.applyRunsFetched(msg)

	case logFetchedMsg:
		if msg.err != nil {
			m.log.Warn("log fetch failed", zap.Int64("run", msg.runID), zap.Error(msg.err))
			m.store.SetLogError(msg.runID, msg.err)
		} else {
			m.log.Debug("log fetched", zap.Int64("run", msg.runID), zap.Int("lines", len(msg.lines)))
			m.store.SetLog(msg.runID, msg.lines)
		}
		return m, nil

	case browseResultMsg:
		if msg.err != nil {
			m.log.Warn("open in browser failed", zap.Error(msg.err))
			m.notice = "could not open browser"
			return m, clearNoticeCmd()
		}
		return m, nil

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyRunsFetched folds a completed snapshot fetch into the store and
// reschedules the next tick from this completion.
func (m Model) applyRunsFetched(msg runsFetchedMsg) (tea.Model, tea.Cmd) {
	if !m.sched.Finish(msg.gen) {
		// Cancelled while in flight; the result must not touch the store.
		return m, nil
	}

	cmds := []tea.Cmd{tickCmd(m.sched.Interval(), m.sched.Gen())}

	if msg.err != nil {
		// Stale-but-valid data beats a blank screen: the store is left
		// untouched and the failure shows in the status bar.
		m.refreshErr = msg.err
		m.log.Warn("refresh failed", zap.Error(msg.err))
		return m, tea.Batch(cmds...)
	}

	m.refreshErr = nil
	m.lastUpdated = time.Now()

	diff := m.store.Reconcile(msg.runs)
	if !diff.Empty() {
		m.log.Debug("snapshot reconciled",
			zap.Int("added", len(diff.Added)),
			zap.Int("removed", len(diff.Removed)),
			zap.Int("updated", len(diff.Updated)))
	}

	if m.details != nil {
		if _, ok := m.store.Get(m.details.runID); !ok {
			// Details for a vanished run are meaningless.
			m.details = nil
		}
	}
	m.applyFilters()

	return m, tea.Batch(cmds...)
}

func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		m.setCursor(moveCursor(m.cursor, -1, len(m.visible)))

	case key.Matches(msg, m.keys.Down):
		m.setCursor(moveCursor(m.cursor, 1, len(m.visible)))

	case key.Matches(msg, m.keys.Top):
		m.setCursor(moveCursor(m.cursor, -len(m.visible), len(m.visible)))

	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(moveCursor(m.cursor, len(m.visible), len(m.visible)))

	case key.Matches(msg, m.keys.Open):
		// Opening requires a selection; with an empty visible sequence
		// there is nothing to open.
		if m.cursor < 0 {
			return m, nil
		}
		m.details = &detailsState{runID: m.selectedID}
		if m.store.BeginLogFetch(m.selectedID) {
			return m, fetchLogCmd(m.ctx, m.client, m.selectedID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.sched.Cancel()
		return m, tea.Batch(m.beginRefresh(), m.spin.Tick)

	case key.Matches(msg, m.keys.FilterBranch):
		m.filters.Branch = !m.filters.Branch
		m.applyFilters()

	case key.Matches(msg, m.keys.FilterUser):
		m.filters.User = !m.filters.User
		m.applyFilters()

	case key.Matches(msg, m.keys.FilterLatest):
		m.filters.Latest = !m.filters.Latest
		m.applyFilters()

	case key.Matches(msg, m.keys.CopyURL):
		if run, ok := m.selectedRun(); ok && run.HTMLURL != "" {
			m.notice = "run url copied"
			return m, tea.Batch(copyURLCmd(run.HTMLURL), clearNoticeCmd())
		}

	case key.Matches(msg, m.keys.Browse):
		if run, ok := m.selectedRun(); ok {
			return m, browseCmd(m.ctx, m.client, run.ID)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) updateDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.detailLines())
	page := m.detailHeight()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Close):
		// Selection in the list is untouched by visiting details.
		m.details = nil

	case key.Matches(msg, m.keys.Refresh):
		m.sched.Cancel()
		return m, tea.Batch(m.beginRefresh(), m.spin.Tick)

	case key.Matches(msg, m.keys.Up):
		m.details.scroll = clampScroll(m.details.scroll-1, total, page)

	case key.Matches(msg, m.keys.Down):
		m.details.scroll = clampScroll(m.details.scroll+1, total, page)

	case key.Matches(msg, m.keys.PageUp):
		m.details.scroll = clampScroll(m.details.scroll-page, total, page)

	case key.Matches(msg, m.keys.PageDown):
		m.details.scroll = clampScroll(m.details.scroll+page, total, page)

	case key.Matches(msg, m.keys.Top):
		m.details.scroll = 0

	case key.Matches(msg, m.keys.Bottom):
		m.details.scroll = clampScroll(total, total, page)

	case key.Matches(msg, m.keys.CopyURL):
		if run, ok := m.store.Get(m.details.runID); ok && run.HTMLURL != "" {
			m.notice = "run url copied"
			return m, tea.Batch(copyURLCmd(run.HTMLURL), clearNoticeCmd())
		}

	case key.Matches(msg, m.keys.Browse):
		if _, ok := m.store.Get(m.details.runID); ok {
			return m, browseCmd(m.ctx, m.client, m.details.runID)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// quit cancels any in-flight fetch before the program exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.sched.Cancel()
	return m, tea.Quit
}

// beginRefresh starts a background snapshot fetch unless one is already
// pending, in which case the attempt coalesces into nothing.
func (m *Model) beginRefresh() tea.Cmd {
	ctx, gen, ok := m.sched.Begin(m.ctx)
	if !ok {
		return nil
	}
	return fetchRunsCmd(ctx, m.client, gen)
}

// applyFilters recomputes the visible sequence and re-clamps selection and
// scroll. Cost is proportional to store size; no fetch happens here.
func (m *Model) applyFilters() {
	m.visible = filter.Apply(m.store.Runs(), m.filters, m.fctx)
	m.selectedID, m.cursor = resolveSelection(m.visible, m.selectedID, m.cursor)
	m.listScroll = clampScroll(m.listScroll, len(m.visible), m.listHeight())
	m.listScroll = scrollTo(m.listScroll, m.cursor, m.listHeight())
	if len(m.visible) == 0 {
		// No selection means no details view either.
		m.details = nil
	}
}

func (m *Model) setCursor(cursor int) {
	m.cursor = cursor
	if cursor >= 0 && cursor < len(m.visible) {
		m.selectedID = m.visible[cursor].ID
	} else {
		m.selectedID = noSelection
	}
	m.listScroll = scrollTo(m.listScroll, m.cursor, m.listHeight())
}

func (m Model) selectedRun() (gh.Run, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return gh.Run{}, false
	}
	return m.visible[m.cursor], true
}

// detailLines returns the log content currently shown in the details view,
// or nil when the view is closed or the log is not ready.
func (m Model) detailLines() []string {
	if m.details == nil {
		return nil
	}
	state := m.store.Log(m.details.runID)
	if state.Phase != store.LogReady {
		return nil
	}
	return state.Lines
}
