package ui

import (
	"ghwatch/internal/gh"
)

type (
	// runsFetchedMsg delivers the result of one background snapshot fetch.
	// gen identifies the scheduler generation that started it; results from
	// a cancelled generation are discarded.
	runsFetchedMsg struct {
		gen  uint64
		runs []gh.Run
		err  error
	}

	// logFetchedMsg delivers the result of one details-log fetch.
	logFetchedMsg struct {
		runID int64
		lines []string
		err   error
	}

	// browseResultMsg reports whether opening the run in the browser
	// succeeded.
	browseResultMsg struct {
		err error
	}

	// tickMsg requests the next scheduled refresh. gen is the scheduler
	// generation at the time the tick was armed; a stale generation means
	// the chain was superseded by a manual refresh and the tick is dropped.
	tickMsg struct {
		gen uint64
	}

	clearNoticeMsg struct{}
)
