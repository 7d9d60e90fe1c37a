package gh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// scriptRunner returns canned output keyed by the joined argument list.
func scriptRunner(t *testing.T, script map[string]any) runner {
	t.Helper()
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := name + " " + strings.Join(args, " ")
		val, ok := script[key]
		if !ok {
			t.Fatalf("unexpected command: %s", key)
		}
		switch v := val.(type) {
		case string:
			return []byte(v), nil
		case error:
			return nil, v
		default:
			t.Fatalf("bad script entry for %s: %T", key, val)
			return nil, nil
		}
	}
}

func TestNewClientResolvesRepo(t *testing.T) {
	run := scriptRunner(t, map[string]any{
		"gh repo view --json owner,name": `{"name":"widgets","owner":{"login":"acme"}}`,
	})

	client, err := newClient(context.Background(), 0, run)
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if got := client.Repo().Slug(); got != "acme/widgets" {
		t.Fatalf("repo slug = %q, want acme/widgets", got)
	}
	if client.perPage != defaultPerPage {
		t.Fatalf("perPage = %d, want default %d", client.perPage, defaultPerPage)
	}
}

func TestNewClientOutsideRepository(t *testing.T) {
	run := scriptRunner(t, map[string]any{
		"gh repo view --json owner,name": error(&ExitError{
			Args:   []string{"gh", "repo", "view"},
			Stderr: "none of the git remotes point to a known host",
		}),
	})

	_, err := newClient(context.Background(), 0, run)
	if !errors.Is(err, ErrNoRepository) {
		t.Fatalf("err = %v, want ErrNoRepository", err)
	}
}

func TestFetchRunsDecodesAndNormalizes(t *testing.T) {
	payload := `{
		"total_count": 2,
		"workflow_runs": [
			{
				"id": 42, "name": "ci", "head_branch": "main",
				"status": "completed", "conclusion": "success",
				"run_started_at": "2026-08-01T10:00:00Z",
				"updated_at": "2026-08-01T10:05:00Z",
				"html_url": "https://github.com/acme/widgets/actions/runs/42",
				"actor": {"login": "octocat"}
			},
			{
				"id": 43, "name": "lint", "head_branch": "dev",
				"status": "in_progress", "conclusion": "",
				"run_started_at": "2026-08-01T10:10:00Z",
				"updated_at": "2026-08-01T10:11:00Z",
				"actor": {"login": "hubot"}
			}
		]
	}`
	client := &Client{
		repo:    RepoInfo{Owner: "acme", Name: "widgets"},
		perPage: 30,
		run: scriptRunner(t, map[string]any{
			"gh api -H Accept: application/vnd.github+json repos/acme/widgets/actions/runs?per_page=30": payload,
		}),
	}

	runs, err := client.FetchRuns(context.Background())
	if err != nil {
		t.Fatalf("FetchRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != 42 || runs[0].Status != StatusSuccess {
		t.Fatalf("runs[0] = %+v, want id=42 success", runs[0])
	}
	if runs[0].Duration.Minutes() != 5 {
		t.Fatalf("runs[0].Duration = %v, want 5m", runs[0].Duration)
	}
	if runs[1].Status != StatusInProgress || runs[1].Duration != 0 {
		t.Fatalf("runs[1] = %+v, want in_progress with zero duration", runs[1])
	}
}

func TestFetchRunsMalformedOutput(t *testing.T) {
	client := &Client{
		repo:    RepoInfo{Owner: "acme", Name: "widgets"},
		perPage: 30,
		run: scriptRunner(t, map[string]any{
			"gh api -H Accept: application/vnd.github+json repos/acme/widgets/actions/runs?per_page=30": "not json",
		}),
	}

	_, err := client.FetchRuns(context.Background())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestFetchLogConcatenatesJobs(t *testing.T) {
	client := &Client{
		repo:    RepoInfo{Owner: "acme", Name: "widgets"},
		perPage: 30,
		run: scriptRunner(t, map[string]any{
			"gh api -H Accept: application/vnd.github+json repos/acme/widgets/actions/runs/42/jobs": `{
				"total_count": 2,
				"jobs": [{"id": 7, "name": "build"}, {"id": 8, "name": "test"}]
			}`,
			"gh api -H Accept: application/vnd.github.v3+raw repos/acme/widgets/actions/jobs/7/logs": "step one\r\nstep two\n",
			"gh api -H Accept: application/vnd.github.v3+raw repos/acme/widgets/actions/jobs/8/logs": error(&ExitError{
				Args:   []string{"gh", "api"},
				Stderr: "HTTP 404: Not Found",
			}),
		}),
	}

	lines, err := client.FetchLog(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchLog: %v", err)
	}
	want := []string{
		jobHeading("build"),
		"step one",
		"step two",
		jobHeading("test"),
		"(logs not available yet)",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCurrentLogin(t *testing.T) {
	out := strings.Join([]string{
		"github.com",
		"  ✓ Logged in to github.com account octocat (keyring)",
		"  - Active account: true",
	}, "\n")
	run := scriptRunner(t, map[string]any{"gh auth status": out})

	login, err := currentLogin(context.Background(), run)
	if err != nil {
		t.Fatalf("currentLogin: %v", err)
	}
	if login != "octocat" {
		t.Fatalf("login = %q, want octocat", login)
	}
}

func TestCurrentLoginUnauthenticated(t *testing.T) {
	run := scriptRunner(t, map[string]any{
		"gh auth status": error(&ExitError{
			Args:   []string{"gh", "auth", "status"},
			Stderr: "You are not logged into any GitHub hosts.",
		}),
	})

	_, err := currentLogin(context.Background(), run)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestCurrentBranch(t *testing.T) {
	run := scriptRunner(t, map[string]any{
		"git rev-parse --abbrev-ref HEAD": "feature/poll-loop\n",
	})

	branch, err := currentBranch(context.Background(), run)
	if err != nil {
		t.Fatalf("currentBranch: %v", err)
	}
	if branch != "feature/poll-loop" {
		t.Fatalf("branch = %q, want feature/poll-loop", branch)
	}
}

func TestOpenInBrowserUsesRunView(t *testing.T) {
	client := &Client{
		repo: RepoInfo{Owner: "acme", Name: "widgets"},
		run: scriptRunner(t, map[string]any{
			"gh run view --web 42": "",
		}),
	}

	if err := client.OpenInBrowser(context.Background(), 42); err != nil {
		t.Fatalf("OpenInBrowser: %v", err)
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Args: []string{"gh", "api", "x"}, Stderr: "boom\n"}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Fatalf("Error() = %q, want stderr included", got)
	}
	empty := &ExitError{Args: []string{"gh"}}
	if got := empty.Error(); !strings.Contains(got, "no stderr output") {
		t.Fatalf("Error() = %q, want placeholder for empty stderr", got)
	}
}

func ExampleRepoInfo_Slug() {
	fmt.Println(RepoInfo{Owner: "acme", Name: "widgets"}.Slug())
	// Output: acme/widgets
}
