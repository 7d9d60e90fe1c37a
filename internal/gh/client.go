package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Sentinel errors for conditions the caller treats as startup-fatal.
var (
	// ErrMissing indicates the gh executable is not installed.
	ErrMissing = errors.New("gh executable not found in PATH")
	// ErrUnauthenticated indicates gh is installed but not logged in.
	ErrUnauthenticated = errors.New("gh is not authenticated; run 'gh auth login'")
	// ErrNoRepository indicates the working directory is not a GitHub repository.
	ErrNoRepository = errors.New("not inside a GitHub repository")
)

// ExitError reports a gh invocation that ran but exited non-zero.
type ExitError struct {
	Args   []string
	Stderr string
}

func (e *ExitError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		detail = "no stderr output"
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Args, " "), detail)
}

// ParseError reports structured output that could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// runner executes an external command and returns its stdout. Swappable in
// tests so no gh binary is needed.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMissing, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Args: append([]string{name}, args...), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Client invokes the gh CLI for one repository. It performs no retries and
// holds no mutable state; cancellation of the passed context kills the
// underlying child process.
type Client struct {
	repo    RepoInfo
	perPage int
	run     runner
}

const defaultPerPage = 30

// NewClient resolves the repository for the current working directory and
// returns a client bound to it. Returns ErrNoRepository when gh cannot
// identify one.
func NewClient(ctx context.Context, perPage int) (*Client, error) {
	return newClient(ctx, perPage, execRunner)
}

func newClient(ctx context.Context, perPage int, run runner) (*Client, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	out, err := run(ctx, "gh", "repo", "view", "--json", "owner,name")
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", ErrNoRepository, strings.TrimSpace(exitErr.Stderr))
		}
		return nil, err
	}

	var payload struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, &ParseError{Source: "gh repo view", Err: err}
	}
	if payload.Owner.Login == "" || payload.Name == "" {
		return nil, fmt.Errorf("%w: gh repo view returned no owner/name", ErrNoRepository)
	}

	return &Client{
		repo:    RepoInfo{Owner: payload.Owner.Login, Name: payload.Name},
		perPage: perPage,
		run:     run,
	}, nil
}

// Repo returns the repository this client is bound to.
func (c *Client) Repo() RepoInfo { return c.repo }

// FetchRuns retrieves the most recent workflow runs, newest first as GitHub
// returns them. The call is synchronous; callers run it off the UI loop.
func (c *Client) FetchRuns(ctx context.Context) ([]Run, error) {
	endpoint := fmt.Sprintf("repos/%s/actions/runs?per_page=%d", c.repo.Slug(), c.perPage)
	out, err := c.run(ctx, "gh", "api", "-H", "Accept: application/vnd.github+json", endpoint)
	if err != nil {
		return nil, err
	}

	var payload runsResponse
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, &ParseError{Source: "actions/runs", Err: err}
	}

	runs := make([]Run, 0, len(payload.WorkflowRuns))
	for _, raw := range payload.WorkflowRuns {
		runs = append(runs, raw.toRun())
	}
	return runs, nil
}

// FetchLog retrieves the full log for one run: every job's log stream,
// concatenated under a per-job heading in job order.
func (c *Client) FetchLog(ctx context.Context, runID int64) ([]string, error) {
	endpoint := fmt.Sprintf("repos/%s/actions/runs/%d/jobs", c.repo.Slug(), runID)
	out, err := c.run(ctx, "gh", "api", "-H", "Accept: application/vnd.github+json", endpoint)
	if err != nil {
		return nil, err
	}

	var payload jobsResponse
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, &ParseError{Source: "runs/jobs", Err: err}
	}

	var lines []string
	for _, job := range payload.Jobs {
		raw, err := c.run(ctx, "gh", "api",
			"-H", "Accept: application/vnd.github.v3+raw",
			fmt.Sprintf("repos/%s/actions/jobs/%d/logs", c.repo.Slug(), job.ID))
		if err != nil {
			// Logs for queued jobs 404 until the job starts; show the
			// condition inline instead of failing the whole fetch.
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				lines = append(lines, jobHeading(job.Name), "(logs not available yet)")
				continue
			}
			return nil, err
		}
		lines = append(lines, jobHeading(job.Name))
		lines = append(lines, splitLogLines(raw)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "(no jobs reported for this run)")
	}
	return lines, nil
}

// CurrentLogin returns the authenticated gh user, parsed from gh auth
// status. Returns ErrUnauthenticated when no account is logged in.
func CurrentLogin(ctx context.Context) (string, error) {
	return currentLogin(ctx, execRunner)
}

func currentLogin(ctx context.Context, run runner) (string, error) {
	out, err := run(ctx, "gh", "auth", "status")
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", ErrUnauthenticated, strings.TrimSpace(exitErr.Stderr))
		}
		return "", err
	}
	login, ok := parseAuthLogin(string(out))
	if !ok {
		return "", fmt.Errorf("%w: could not find an account in gh auth status output", ErrUnauthenticated)
	}
	return login, nil
}

// parseAuthLogin extracts the login from a "Logged in to github.com account
// octocat (...)" line.
func parseAuthLogin(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Logged in to") || !strings.Contains(line, " account ") {
			continue
		}
		rest := line[strings.Index(line, " account ")+len(" account "):]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		login := strings.Trim(fields[0], "()")
		if login != "" {
			return login, true
		}
	}
	return "", false
}

// CurrentBranch returns the checked-out branch of the working directory.
func CurrentBranch(ctx context.Context) (string, error) {
	return currentBranch(ctx, execRunner)
}

func currentBranch(ctx context.Context, run runner) (string, error) {
	out, err := run(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve current branch: %w", err)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" {
		return "", fmt.Errorf("resolve current branch: git returned empty output")
	}
	return branch, nil
}

// OpenInBrowser opens the run's page in the default browser through gh.
func (c *Client) OpenInBrowser(ctx context.Context, runID int64) error {
	_, err := c.run(ctx, "gh", "run", "view", "--web", strconv.FormatInt(runID, 10))
	return err
}

func jobHeading(name string) string {
	return fmt.Sprintf("── %s ──", name)
}

func splitLogLines(raw []byte) []string {
	text := strings.TrimRight(string(raw), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
