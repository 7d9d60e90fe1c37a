package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"

	"ghwatch/internal/filter"
	"ghwatch/internal/gh"
	"ghwatch/internal/store"
)

// Fixed vertical chrome around the scrolling region: header block, column
// or summary line, and the status/help bar.
const (
	listChrome   = 5
	detailChrome = 5
)

const (
	colStatus   = 3
	colBranch   = 20
	colActor    = 16
	colAge      = 9
	colDuration = 9
)

func (m Model) listHeight() int {
	h := m.height - listChrome
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) detailHeight() int {
	h := m.height - detailChrome
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the whole screen from current state; it never mutates.
func (m Model) View() string {
	if m.width == 0 {
		return "starting up..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	if m.details != nil {
		b.WriteString(m.renderDetails())
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("ghwatch")
	repo := m.styles.Muted.Render(m.repoSlug())
	version := ""
	if m.version != "" {
		version = m.styles.Muted.Render(" v" + m.version)
	}
	return title + " " + repo + version + "\n"
}

func (m Model) repoSlug() string {
	if m.client == nil {
		return ""
	}
	return m.client.Repo().Slug()
}

func (m Model) renderList() string {
	var b strings.Builder

	wfWidth := m.workflowWidth()
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %*s %*s",
		colStatus, "ST",
		wfWidth, "WORKFLOW",
		colBranch, "BRANCH",
		colActor, "ACTOR",
		colAge, "AGE",
		colDuration, "DURATION")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteByte('\n')

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Muted.Render(m.emptyListMessage()))
		b.WriteByte('\n')
		return b.String()
	}

	height := m.listHeight()
	end := m.listScroll + height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.listScroll; i < end; i++ {
		b.WriteString(m.renderRow(m.visible[i], i == m.cursor, wfWidth))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) emptyListMessage() string {
	if m.lastUpdated.IsZero() && m.refreshErr == nil {
		return "fetching workflow runs..."
	}
	if m.filters.Active() {
		return "no runs match the active filters"
	}
	return "no workflow runs found"
}

func (m Model) renderRow(run gh.Run, selected bool, wfWidth int) string {
	glyph, glyphStyle := m.styles.statusGlyph(run.Status)

	row := fmt.Sprintf("%-*s %-*s %-*s %*s %*s",
		wfWidth, clip(run.Workflow, wfWidth),
		colBranch, clip(run.Branch, colBranch),
		colActor, clip(run.Actor, colActor),
		colAge, formatAge(run.StartedAt),
		colDuration, formatRunDuration(run))

	if selected {
		return glyphStyle.Render(fmt.Sprintf("%-*s", colStatus, glyph)) +
			m.styles.Selected.Render(row)
	}
	return glyphStyle.Render(fmt.Sprintf("%-*s", colStatus, glyph)) +
		m.styles.Row.Render(row)
}

// workflowWidth gives the workflow column whatever the fixed columns leave
// over, with a floor so narrow terminals stay legible.
func (m Model) workflowWidth() int {
	fixed := colStatus + colBranch + colActor + colAge + colDuration + 5
	w := m.width - fixed
	if w < 12 {
		w = 12
	}
	return w
}

func (m Model) renderDetails() string {
	run, ok := m.store.Get(m.details.runID)
	if !ok {
		return m.styles.Muted.Render("run no longer available") + "\n"
	}

	var b strings.Builder
	glyph, glyphStyle := m.styles.statusGlyph(run.Status)
	summary := fmt.Sprintf("%s %s  %s  %s  started %s",
		glyphStyle.Render(glyph),
		m.styles.Header.Render(clip(run.Workflow, m.width/2)),
		run.Branch,
		run.Actor,
		formatAge(run.StartedAt)+" ago")
	b.WriteString(summary)
	b.WriteByte('\n')

	state := m.store.Log(m.details.runID)
	switch state.Phase {
	case store.LogLoading:
		b.WriteString(m.spin.View() + m.styles.Muted.Render(" fetching logs..."))
		b.WriteByte('\n')
	case store.LogFailed:
		b.WriteString(m.styles.Error.Render("log fetch failed: " + state.Err.Error()))
		b.WriteByte('\n')
	case store.LogReady:
		b.WriteString(m.renderLogWindow(state.Lines))
	default:
		b.WriteString(m.styles.Muted.Render("no logs loaded"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderLogWindow(lines []string) string {
	height := m.detailHeight()
	start := clampScroll(m.details.scroll, len(lines), height)
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for _, line := range lines[start:end] {
		b.WriteString(clip(line, m.width))
		b.WriteByte('\n')
	}
	if len(lines) > height {
		b.WriteString(m.styles.Muted.Render(
			fmt.Sprintf("lines %d-%d of %d", start+1, end, len(lines))))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	parts := make([]string, 0, 4)

	if m.sched.InFlight() {
		parts = append(parts, m.spin.View()+"refreshing")
	} else if !m.lastUpdated.IsZero() {
		parts = append(parts, "updated "+formatAge(m.lastUpdated)+" ago")
	}

	if m.refreshErr != nil {
		parts = append(parts, m.styles.Error.Render("refresh failed"))
	}

	if label := filterLabel(m.filters); label != "" {
		parts = append(parts, m.styles.StatusBar.Filter.Render(label))
	}

	if m.notice != "" {
		parts = append(parts, m.styles.Notice.Render(m.notice))
	}

	parts = append(parts, m.styles.Bar.Render(
		fmt.Sprintf("%d runs", len(m.visible))))

	return m.styles.Bar.Render(strings.Join(parts, "  "))
}

func filterLabel(set filter.Set) string {
	active := make([]string, 0, 3)
	if set.Branch {
		active = append(active, "branch")
	}
	if set.User {
		active = append(active, "user")
	}
	if set.Latest {
		active = append(active, "latest")
	}
	if len(active) == 0 {
		return ""
	}
	return "filters: " + strings.Join(active, "+")
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// formatAge renders a duration since t in the largest sensible unit.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func formatRunDuration(run gh.Run) string {
	if !run.Status.Terminal() {
		if run.Status == gh.StatusInProgress {
			return "running"
		}
		return "-"
	}
	d := run.Duration
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
