package ui

import "ghwatch/internal/gh"

// noSelection marks the empty selection. Run IDs from GitHub are always
// positive.
const noSelection int64 = 0

// detailsState exists only while the details view is open; a nil pointer
// means list view, so a log scroll offset cannot outlive the view it
// belongs to.
type detailsState struct {
	runID  int64
	scroll int
}

// resolveSelection maps the previous selection onto a new visible sequence.
// The selected identifier wins over its position: if the run is still
// visible the cursor follows it wherever it moved. A vanished selection
// falls back to the nearest remaining index; an empty sequence clears the
// selection.
func resolveSelection(visible []gh.Run, prevID int64, prevCursor int) (int64, int) {
	if len(visible) == 0 {
		return noSelection, -1
	}
	if prevID != noSelection {
		for i, run := range visible {
			if run.ID == prevID {
				return prevID, i
			}
		}
	}
	cursor := prevCursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(visible) {
		cursor = len(visible) - 1
	}
	return visible[cursor].ID, cursor
}

// moveCursor shifts the cursor by delta, clamped to [0, n) with no
// wraparound.
func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return -1
	}
	next := cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	return next
}

// scrollTo adjusts a scroll offset so the cursor stays inside a viewport of
// the given height.
func scrollTo(scroll, cursor, height int) int {
	if height <= 0 || cursor < 0 {
		return 0
	}
	if cursor < scroll {
		return cursor
	}
	if cursor >= scroll+height {
		return cursor - height + 1
	}
	return scroll
}

// clampScroll bounds a free scroll offset against the content length and
// viewport height.
func clampScroll(scroll, total, height int) int {
	maxScroll := total - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
