package tracker

import (
	"time"
)

// Comment is a single comment on a tracked issue, ordered by creation time
// inside Issue.Comments.
type Comment struct {
	ID      string    `json:"id"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Issue is a read snapshot of a tracker-side issue. The reconciliation core
// never mutates a snapshot directly; every change goes through Update or
// AddComment and the snapshot is replaced by the tracker's response.
type Issue struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	Status      string    `json:"status"`
	Labels      []string  `json:"labels"`
	Assignee    string    `json:"assignee,omitempty"`
	Subscribers []string  `json:"subscribers,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// IssueSpec describes a new issue to create.
type IssueSpec struct {
	Project      string                 `json:"project"`
	IssueType    string                 `json:"issue_type"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Priority     int                    `json:"priority"`
	Labels       []string               `json:"labels"`
	Assignee     string                 `json:"assignee,omitempty"`
	Subscribers  []string               `json:"subscribers,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty"`
}

// Delta carries the fields of an existing issue to change. Nil pointers mean
// "leave untouched", so a Delta can express any subset of an update.
type Delta struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Assignee    *string  `json:"assignee,omitempty"`
}

// Empty reports whether the delta would change nothing.
func (d *Delta) Empty() bool {
	return d.Title == nil && d.Description == nil && d.Priority == nil &&
		d.Status == nil && d.Labels == nil && d.Assignee == nil
}

// Tracker is the collaborator boundary to the external issue tracker. The
// concrete client owns transport concerns (auth, retries, pagination); the
// reconciliation core treats Search results as complete.
type Tracker interface {
	// Search returns every issue in the project matching the query.
	Search(project string, query Query) ([]Issue, error)
	// Create opens a new issue and returns the tracker's snapshot of it.
	Create(spec IssueSpec) (*Issue, error)
	// Update applies the delta to the issue and returns the fresh snapshot.
	Update(issue *Issue, delta Delta) (*Issue, error)
	// AddComment appends a comment to the issue.
	AddComment(issue *Issue, body string) error
	// Refresh re-reads the issue in place, including its comment history.
	Refresh(issue *Issue) error
	// PriorityName maps a numeric priority rank to its display name.
	PriorityName(rank int) (string, error)
	// ContentsMatch reports whether two bodies are semantically equal,
	// ignoring markup-level formatting differences.
	ContentsMatch(a, b string) (bool, error)
}
