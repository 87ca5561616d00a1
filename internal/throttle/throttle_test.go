package throttle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/trackersync/pkg/tracker"
)

// fakeTracker serves canned comment history through Refresh.
type fakeTracker struct {
	tracker.Tracker

	comments   []tracker.Comment
	refreshErr error
	refreshed  int
}

func (f *fakeTracker) Refresh(issue *tracker.Issue) error {
	f.refreshed++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	issue.Comments = f.comments
	return nil
}

const cooldown = 30 * 24 * time.Hour

func TestShouldCommentNoPriorComment(t *testing.T) {
	tr := &fakeTracker{}
	issue := &tracker.Issue{Key: "SEC-1"}

	ok, err := ShouldComment(tr, issue, "This issue has been fixed.", cooldown, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, tr.refreshed, "decision must refresh the issue first")
}

func TestShouldCommentCooldownBoundary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body := "Found that the issue is still not fixed."

	testCases := []struct {
		name    string
		updated time.Time
		allowed bool
	}{
		{"one second inside the window", now.Add(-cooldown + time.Second), false},
		{"exactly at the boundary", now.Add(-cooldown), false},
		{"one second past the window", now.Add(-cooldown - time.Second), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTracker{comments: []tracker.Comment{
				{Body: body + "\nPlease reopen this issue.", Updated: tc.updated},
			}}
			ok, err := ShouldComment(tr, &tracker.Issue{Key: "SEC-2"}, body, cooldown, now)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, ok)
		})
	}
}

func TestShouldCommentMatchIsCaseInsensitiveSubstring(t *testing.T) {
	now := time.Now()
	tr := &fakeTracker{comments: []tracker.Comment{
		{Body: "note: THIS ISSUE HAS BEEN FIXED. closing.", Updated: now.Add(-time.Hour)},
	}}

	ok, err := ShouldComment(tr, &tracker.Issue{Key: "SEC-3"}, "This issue has been fixed.", cooldown, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldCommentNewestMatchWins(t *testing.T) {
	now := time.Now()
	body := "This issue has been fixed."
	tr := &fakeTracker{comments: []tracker.Comment{
		{Body: body, Updated: now.Add(-90 * 24 * time.Hour)},
		{Body: body, Updated: now.Add(-time.Hour)},
	}}

	ok, err := ShouldComment(tr, &tracker.Issue{Key: "SEC-4"}, body, cooldown, now)
	require.NoError(t, err)
	assert.False(t, ok, "a recent repeat blocks even when an old one is past the cooldown")
}

func TestShouldCommentUnrelatedHistoryAllows(t *testing.T) {
	now := time.Now()
	tr := &fakeTracker{comments: []tracker.Comment{
		{Body: "triage notes", Updated: now.Add(-time.Minute)},
	}}

	ok, err := ShouldComment(tr, &tracker.Issue{Key: "SEC-5"}, "This issue has been fixed.", cooldown, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShouldCommentRefreshFailurePropagates(t *testing.T) {
	tr := &fakeTracker{refreshErr: fmt.Errorf("tracker unavailable")}

	ok, err := ShouldComment(tr, &tracker.Issue{Key: "SEC-6"}, "body", cooldown, time.Now())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, tr.refreshed, "refresh is not retried")
}
