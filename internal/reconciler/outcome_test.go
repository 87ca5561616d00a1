package reconciler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeCountsAndChangelog(t *testing.T) {
	o := NewOutcome()
	assert.NotEmpty(t, o.RunID)

	o.RecordCreated("SEC-1")
	o.RecordUpdated("SEC-2")
	o.RecordUpdated("SEC-2") // re-recording the same key is a no-op
	o.RecordCommented("SEC-2")
	o.RecordCommented("SEC-3")

	assert.Equal(t, 1, o.CreatedCount())
	// SEC-2 was both updated and commented; it counts once.
	assert.Equal(t, 2, o.UpdatedCount())
	assert.Equal(t, 2, o.CommentedCount())
	assert.Equal(t, "[BUILD CHANGELOG] Created(1) Updated(2) Commented(2)", o.Changelog())
	assert.False(t, o.Failed())
}

func TestOutcomeExceptions(t *testing.T) {
	o := NewOutcome()
	assert.False(t, o.Failed())

	o.RecordException(fmt.Errorf("search failed"))
	assert.True(t, o.Failed())
	assert.Len(t, o.Exceptions, 1)
}
