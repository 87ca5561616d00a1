// Package throttle suppresses repeated notification comments within a
// configured cooldown window.
package throttle

import (
	"fmt"
	"strings"
	"time"

	"github.com/scan-io-git/trackersync/pkg/tracker"
)

// ShouldComment decides whether body may be posted on the issue. The issue
// is refreshed first so the decision never runs on stale comment history; a
// refresh failure propagates without a retry.
//
// The newest existing comment containing body as a case-insensitive
// substring blocks the post unless its last-updated time is strictly before
// now minus cooldown. A prior comment aged exactly the cooldown is still
// blocked.
func ShouldComment(tr tracker.Tracker, issue *tracker.Issue, body string, cooldown time.Duration, now time.Time) (bool, error) {
	if err := tr.Refresh(issue); err != nil {
		return false, fmt.Errorf("refresh issue %q before comment decision: %w", issue.Key, err)
	}

	needle := strings.ToLower(body)
	var last *tracker.Comment
	for i := range issue.Comments {
		if strings.Contains(strings.ToLower(issue.Comments[i].Body), needle) {
			last = &issue.Comments[i]
		}
	}
	if last == nil {
		return true, nil
	}

	return last.Updated.Before(now.Add(-cooldown)), nil
}
