// Package ui implements the terminal interface as a single bubbletea
// model.
//
// # Overview
//
// Every input the program reacts to arrives as a message on one event
// loop: keystrokes, window resizes, refresh timer ticks, and the results
// of background fetches. Update applies each message as one atomic state
// transition, so the run store and all view state are owned by a single
// goroutine and need no locking.
//
// # Architecture
//
// Background work never touches shared state. A fetch runs as a tea.Cmd
// and reports back with an immutable runsFetchedMsg or logFetchedMsg;
// results carry the scheduler generation that started them, and results
// from a cancelled generation are discarded on arrival. The visible run
// sequence is always derived fresh from the store through the filter
// engine, with selection resolved by run identifier rather than position.
//
// Navigation is a two-level hierarchy: the run list, and a details view
// holding a scrollable log for one run. The details view exists only as
// a non-nil pointer, so a log scroll offset cannot survive leaving the
// view.
package ui
