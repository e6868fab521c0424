package models

import "time"

// DocumentAction is the per-document outcome of an update run.
type DocumentAction string

const (
	ActionCreated DocumentAction = "created"
	ActionUpdated DocumentAction = "updated"
	ActionSkipped DocumentAction = "skipped"
	ActionCrashed DocumentAction = "crashed"
)

// DocumentOutcome records what happened to a single document during a run.
type DocumentOutcome struct {
	URL    string         `json:"url"`
	Kind   DocumentKind   `json:"kind"`
	Action DocumentAction `json:"action"`
	Error  string         `json:"error,omitempty"`
}

// RunResult summarises one source update run.
type RunResult struct {
	Source     string            `json:"source"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Documents  []DocumentOutcome `json:"documents"`
}

// Count returns the number of documents that ended with the given action.
func (r *RunResult) Count(action DocumentAction) int {
	n := 0
	for _, d := range r.Documents {
		if d.Action == action {
			n++
		}
	}
	return n
}
