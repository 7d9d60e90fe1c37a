package gh

import "time"

// Status is the normalized lifecycle state of a workflow run.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusCancelled:
		return true
	}
	return false
}

// Run is one workflow execution as the rest of the application sees it.
// ID is stable across fetches; two Runs with the same ID are the same
// logical entity.
type Run struct {
	ID        int64
	Workflow  string
	Branch    string
	Actor     string
	Status    Status
	StartedAt time.Time
	Duration  time.Duration // zero until the run is terminal
	HTMLURL   string
}

// RepoInfo identifies the repository the watcher is bound to.
type RepoInfo struct {
	Owner string
	Name  string
}

// Slug returns the owner/name form used in API paths.
func (r RepoInfo) Slug() string {
	return r.Owner + "/" + r.Name
}

// runsResponse mirrors GET /repos/{owner}/{repo}/actions/runs.
type runsResponse struct {
	TotalCount   int      `json:"total_count"`
	WorkflowRuns []apiRun `json:"workflow_runs"`
}

// apiRun mirrors one workflow_runs entry. Only the fields the watcher
// consumes are declared.
type apiRun struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	HeadBranch   string    `json:"head_branch"`
	Status       string    `json:"status"`     // queued, in_progress, completed, ...
	Conclusion   string    `json:"conclusion"` // success, failure, cancelled, skipped, ...
	RunStartedAt time.Time `json:"run_started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	HTMLURL      string    `json:"html_url"`
	Actor        apiActor  `json:"actor"`
}

type apiActor struct {
	Login string `json:"login"`
}

// jobsResponse mirrors GET /repos/{owner}/{repo}/actions/runs/{id}/jobs.
type jobsResponse struct {
	TotalCount int      `json:"total_count"`
	Jobs       []apiJob `json:"jobs"`
}

type apiJob struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// toRun normalizes an API payload into a Run.
func (a apiRun) toRun() Run {
	r := Run{
		ID:        a.ID,
		Workflow:  a.Name,
		Branch:    a.HeadBranch,
		Actor:     a.Actor.Login,
		Status:    normalizeStatus(a.Status, a.Conclusion),
		StartedAt: a.RunStartedAt,
		HTMLURL:   a.HTMLURL,
	}
	if r.Status.Terminal() && !a.RunStartedAt.IsZero() && a.UpdatedAt.After(a.RunStartedAt) {
		r.Duration = a.UpdatedAt.Sub(a.RunStartedAt)
	}
	return r
}

// normalizeStatus folds GitHub's status/conclusion pair into one enum.
// Unknown conclusions on completed runs count as failures so they stay
// visible rather than disappearing into a sixth bucket.
func normalizeStatus(status, conclusion string) Status {
	switch status {
	case "completed":
		switch conclusion {
		case "success":
			return StatusSuccess
		case "cancelled", "skipped":
			return StatusCancelled
		default:
			return StatusFailure
		}
	case "in_progress":
		return StatusInProgress
	default:
		// queued, waiting, pending, requested
		return StatusQueued
	}
}
