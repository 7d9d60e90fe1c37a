package ui

import (
	"context"
	"os"
	"strings"
	"time"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"

	"ghwatch/internal/gh"
)

// Fetcher is the slice of the gh client the UI depends on. Satisfied by
// *gh.Client; tests substitute a fake.
type Fetcher interface {
	FetchRuns(ctx context.Context) ([]gh.Run, error)
	FetchLog(ctx context.Context, runID int64) ([]string, error)
	OpenInBrowser(ctx context.Context, runID int64) error
	Repo() gh.RepoInfo
}

var _ Fetcher = (*gh.Client)(nil)

func fetchRunsCmd(ctx context.Context, client Fetcher, gen uint64) tea.Cmd {
	return func() tea.Msg {
		runs, err := client.FetchRuns(ctx)
		return runsFetchedMsg{gen: gen, runs: runs, err: err}
	}
}

func fetchLogCmd(ctx context.Context, client Fetcher, runID int64) tea.Cmd {
	return func() tea.Msg {
		lines, err := client.FetchLog(ctx, runID)
		return logFetchedMsg{runID: runID, lines: lines, err: err}
	}
}

func browseCmd(ctx context.Context, client Fetcher, runID int64) tea.Cmd {
	return func() tea.Msg {
		return browseResultMsg{err: client.OpenInBrowser(ctx, runID)}
	}
}

func tickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func clearNoticeCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// copyURLCmd writes the URL to the terminal clipboard via OSC 52, routing
// through tmux or screen passthrough when needed.
func copyURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		seq := osc52.New(url)

		term := strings.ToLower(os.Getenv("TERM"))
		if tmux := os.Getenv("TMUX"); tmux != "" || strings.HasPrefix(term, "tmux") {
			seq = seq.Tmux()
		} else if strings.HasPrefix(term, "screen") {
			seq = seq.Screen()
		}

		_, _ = seq.WriteTo(os.Stderr)
		return nil
	}
}
