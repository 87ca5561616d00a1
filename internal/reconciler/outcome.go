package reconciler

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome accumulates what one reconciliation pass did. Created, updated and
// commented issues are tracked as distinct key sets; an issue touched by both
// an update and a comment counts once toward the updated total.
type Outcome struct {
	RunID string

	created   map[string]bool
	updated   map[string]bool
	commented map[string]bool

	// Exceptions collects non-fatal per-finding/per-issue failures. The run
	// keeps going; a non-empty list makes the process exit non-zero.
	Exceptions []error
}

// NewOutcome returns an empty outcome with a fresh run identifier.
func NewOutcome() *Outcome {
	return &Outcome{
		RunID:     uuid.NewString(),
		created:   map[string]bool{},
		updated:   map[string]bool{},
		commented: map[string]bool{},
	}
}

func (o *Outcome) RecordCreated(key string)   { o.created[key] = true }
func (o *Outcome) RecordUpdated(key string)   { o.updated[key] = true }
func (o *Outcome) RecordCommented(key string) { o.commented[key] = true }

// RecordException appends a non-fatal failure to the run.
func (o *Outcome) RecordException(err error) {
	o.Exceptions = append(o.Exceptions, err)
}

// CreatedCount is the number of issues created during the pass.
func (o *Outcome) CreatedCount() int { return len(o.created) }

// UpdatedCount is the size of the union of updated and commented issue keys.
func (o *Outcome) UpdatedCount() int {
	total := make(map[string]bool, len(o.updated)+len(o.commented))
	for key := range o.updated {
		total[key] = true
	}
	for key := range o.commented {
		total[key] = true
	}
	return len(total)
}

// CommentedCount is the number of distinct issues that received a comment.
func (o *Outcome) CommentedCount() int { return len(o.commented) }

// Failed reports whether any non-fatal exception was recorded.
func (o *Outcome) Failed() bool { return len(o.Exceptions) > 0 }

// Changelog renders the human-readable summary printed once per run.
func (o *Outcome) Changelog() string {
	return fmt.Sprintf("[BUILD CHANGELOG] Created(%d) Updated(%d) Commented(%d)",
		o.CreatedCount(), o.UpdatedCount(), o.CommentedCount())
}
