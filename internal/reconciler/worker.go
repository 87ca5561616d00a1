// Package reconciler drives one reconciliation pass: it maps every scanner
// finding to exactly one tracker issue, reopens recurring problems and closes
// stale ones, throttling repeated notifications.
package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/trackersync/internal/findings"
	"github.com/scan-io-git/trackersync/internal/fingerprint"
	"github.com/scan-io-git/trackersync/internal/throttle"
	"github.com/scan-io-git/trackersync/internal/transition"
	"github.com/scan-io-git/trackersync/pkg/shared/config"
	"github.com/scan-io-git/trackersync/pkg/shared/errors"
	"github.com/scan-io-git/trackersync/pkg/tracker"
)

// Fixed notification wordings. The throttle matches on these, so changing
// them resets every cooldown window.
const (
	issueFixedComment            = "This issue has been fixed."
	issueNotFixedComment         = "Found that the issue is still not fixed."
	resolveRequestComment        = "Please resolve this issue."
	reopenRequestComment         = "Please reopen this issue."
	closingNotificationComment   = "Closing this issue after verification."
	reopeningNotificationComment = "Reopening this issue as it is not fixed."
)

// Worker reconciles one scan result against the tracker. Workers are
// single-use and strictly sequential; run one per scan result, sharing only
// the read-only policy.
type Worker struct {
	policy  *config.Policy
	tracker tracker.Tracker
	result  findings.ScanResult
	outcome *Outcome
	logger  hclog.Logger
	now     func() time.Time
}

// New creates a worker for one scan result.
func New(policy *config.Policy, tr tracker.Tracker, result findings.ScanResult, logger hclog.Logger) *Worker {
	return &Worker{
		policy:  policy,
		tracker: tr,
		result:  result,
		outcome: NewOutcome(),
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessResult runs the full pass: every finding first, then the
// stale-issue sweep, which depends on having seen every current fingerprint.
// Failures on one unit of work are recorded and the pass continues.
func (w *Worker) ProcessResult() *Outcome {
	w.logger.Info("processing scan result",
		"run_id", w.outcome.RunID,
		"tool", w.result.Context.Tool,
		"repository", w.result.Context.Repository,
		"findings", len(w.result.Findings),
	)

	for i := range w.result.Findings {
		if err := w.processFinding(w.result.Findings[i]); err != nil {
			w.logger.Error("failed to process finding", "title", w.result.Findings[i].Title, "error", err)
			w.outcome.RecordException(err)
		}
	}

	if w.policy.ClosingAllowed() {
		w.closeStaleIssues()
	}

	return w.outcome
}

// processFinding decides create vs update vs conflict for a single finding.
func (w *Worker) processFinding(finding findings.Finding) error {
	query := fingerprint.FindingQuery(w.policy.IssueType, finding, w.result.Context)
	issues, err := w.tracker.Search(w.policy.Project, query)
	if err != nil {
		return fmt.Errorf("search issues for finding %q: %w", finding.Title, err)
	}

	switch len(issues) {
	case 0:
		return w.createIssue(finding)
	case 1:
		return w.updateIssue(&issues[0], finding)
	default:
		keys := make([]string, 0, len(issues))
		for _, issue := range issues {
			keys = append(keys, issue.Key)
		}
		return errors.NewAmbiguousMatchError(fingerprint.Fingerprint(finding, w.result.Context), keys)
	}
}

// createIssue opens a new tracker issue for a finding with no match.
func (w *Worker) createIssue(finding findings.Finding) error {
	labels := fingerprint.Fingerprint(finding, w.result.Context)
	labels = fingerprint.Dedupe(append(labels, finding.Tags...))

	spec := tracker.IssueSpec{
		Project:      w.policy.Project,
		IssueType:    w.policy.IssueType,
		Title:        finding.Title,
		Description:  finding.Description,
		Priority:     finding.Priority,
		Labels:       labels,
		Assignee:     w.policy.Users.Assignee,
		Subscribers:  w.policy.Users.Subscribers,
		CustomFields: w.policy.CustomFields,
	}
	issue, err := w.tracker.Create(spec)
	if err != nil {
		return fmt.Errorf("create issue for finding %q: %w", finding.Title, err)
	}
	w.outcome.RecordCreated(issue.Key)

	priorityName, err := w.tracker.PriorityName(issue.Priority)
	if err != nil {
		priorityName = fmt.Sprintf("%d", issue.Priority)
	}
	w.logger.Info("created new issue", "key", issue.Key, "title", issue.Title, "priority", priorityName)
	return nil
}

// updateIssue computes and applies the minimal delta between an existing
// issue and its finding, then reopens the issue when its status says the
// problem was considered gone.
func (w *Worker) updateIssue(issue *tracker.Issue, finding findings.Finding) error {
	if w.policy.IsIssueIgnorable(issue) {
		// Ignorability only suppresses automatic closing; field updates and
		// the reopen check still run.
		w.logger.Info("issue is ignorable", "key", issue.Key)
	}

	var delta tracker.Delta

	if issue.Assignee == "" && w.policy.Users.Assignee != "" {
		assignee := w.policy.Users.Assignee
		delta.Assignee = &assignee
	}
	if w.policy.SummaryUpdateAllowed && issue.Title != finding.Title {
		title := finding.Title
		delta.Title = &title
	}
	if w.policy.DescriptionUpdateAllowed {
		match, err := w.tracker.ContentsMatch(finding.Description, issue.Description)
		if err != nil {
			return fmt.Errorf("compare descriptions for issue %q: %w", issue.Key, err)
		}
		if !match {
			description := finding.Description
			delta.Description = &description
		}
	}
	if w.policy.LabelUpdateAllowed {
		union := append([]string{}, issue.Labels...)
		for _, tag := range finding.Tags {
			if !fingerprint.Contains(union, tag) {
				union = append(union, tag)
			}
		}
		if len(union) != len(issue.Labels) {
			delta.Labels = union
		}
	}

	// An increase is checked first, so simultaneous eligibility raises the
	// priority rather than lowering it.
	priorityComment := ""
	if finding.Priority > issue.Priority && w.policy.ReprioritizeAllowed {
		priority := finding.Priority
		delta.Priority = &priority
		priorityComment = fmt.Sprintf("Prioritizing to **%s** based on actual priority.", w.priorityName(finding.Priority))
	} else if finding.Priority < issue.Priority && w.policy.DeprioritizeAllowed {
		priority := finding.Priority
		delta.Priority = &priority
		priorityComment = fmt.Sprintf("Reducing priority to **%s** based on actual priority.", w.priorityName(finding.Priority))
	}

	updated := !delta.Empty()
	if updated {
		fresh, err := w.tracker.Update(issue, delta)
		if err != nil {
			return fmt.Errorf("update issue %q: %w", issue.Key, err)
		}
		*issue = *fresh
		w.outcome.RecordUpdated(issue.Key)

		if priorityComment != "" {
			if err := w.tracker.AddComment(issue, priorityComment); err != nil {
				return fmt.Errorf("comment priority change on issue %q: %w", issue.Key, err)
			}
			w.outcome.RecordCommented(issue.Key)
			w.logger.Info("adjusted issue priority", "key", issue.Key, "priority", w.priorityName(finding.Priority))
		}
	}

	// A resolved or closed status on a still-reported finding means the same
	// problem recurred, regardless of whether any field changed.
	if w.policy.ReopenWarranted(issue.Status) {
		return w.reopenIssue(issue)
	}
	if updated {
		w.logger.Info("updated the issue", "key", issue.Key, "title", issue.Title)
	} else {
		w.logger.Info("issue up-to-date", "key", issue.Key, "title", issue.Title)
	}
	return nil
}

// reopenIssue walks the issue back toward an open status and notifies,
// subject to the toOpen policy and the comment throttle.
func (w *Worker) reopenIssue(issue *tracker.Issue) error {
	w.logger.Info("issue was resolved but not actually fixed", "key", issue.Key)

	transitioned := false
	if w.policy.ToOpen.StatusTransferable {
		path := transition.FindPath(w.policy.Transitions, issue.Status, w.policy.OpenStatuses)
		transitioned = w.transitionIssue(issue, path)
		if !transitioned {
			w.logger.Warn("no transition path to an open status", "key", issue.Key, "from", issue.Status)
		}
	}

	var parts []string
	if w.policy.ToOpen.Commentable {
		allowed, err := throttle.ShouldComment(w.tracker, issue, issueNotFixedComment, w.policy.ToOpen.Cooldown(), w.now())
		if err != nil {
			return err
		}
		if allowed {
			parts = append(parts, issueNotFixedComment)
			if !transitioned {
				parts = append(parts, reopenRequestComment)
			}
		}
	}
	if transitioned {
		parts = append(parts, reopeningNotificationComment)
	}

	if len(parts) > 0 {
		if err := w.tracker.AddComment(issue, strings.Join(parts, "\n")); err != nil {
			return fmt.Errorf("comment reopen on issue %q: %w", issue.Key, err)
		}
		w.outcome.RecordCommented(issue.Key)
	}
	return nil
}

// closeIssue runs the close workflow for a stale issue. It reports whether
// any visible action was taken.
func (w *Worker) closeIssue(issue *tracker.Issue) (bool, error) {
	if w.policy.IsIssueIgnorable(issue) {
		w.logger.Info("ignoring the issue", "key", issue.Key)
		return false, nil
	}
	w.logger.Info("issue has been fixed", "key", issue.Key)

	transitioned := false
	if w.policy.ToClose.StatusTransferable {
		path := transition.FindPath(w.policy.Transitions, issue.Status, w.policy.ClosedStatuses)
		transitioned = w.transitionIssue(issue, path)
		if !transitioned {
			w.logger.Warn("no transition path to a closed status", "key", issue.Key, "from", issue.Status)
		}
	}

	var parts []string
	if w.policy.ToClose.Commentable {
		allowed, err := throttle.ShouldComment(w.tracker, issue, issueFixedComment, w.policy.ToClose.Cooldown(), w.now())
		if err != nil {
			return transitioned, err
		}
		if allowed {
			parts = append(parts, issueFixedComment)
			if !transitioned {
				parts = append(parts, resolveRequestComment)
			}
		}
	}
	if transitioned {
		parts = append(parts, closingNotificationComment)
	}

	if len(parts) > 0 {
		if err := w.tracker.AddComment(issue, strings.Join(parts, "\n")); err != nil {
			return transitioned, fmt.Errorf("comment close on issue %q: %w", issue.Key, err)
		}
		w.outcome.RecordCommented(issue.Key)
		return true, nil
	}
	return transitioned, nil
}

// transitionIssue applies each hop of the path in order. A path of one
// status or less means there is nothing to transfer.
func (w *Worker) transitionIssue(issue *tracker.Issue, path []string) bool {
	if len(path) <= 1 {
		return false
	}
	for _, status := range path[1:] {
		status := status
		fresh, err := w.tracker.Update(issue, tracker.Delta{Status: &status})
		if err != nil {
			w.logger.Error("status transition failed", "key", issue.Key, "to", status, "error", err)
			w.outcome.RecordException(fmt.Errorf("transition issue %q to %q: %w", issue.Key, status, err))
			return false
		}
		*issue = *fresh
	}
	w.outcome.RecordUpdated(issue.Key)
	w.logger.Info("transitioned the issue", "key", issue.Key, "path", strings.Join(path, " -> "))
	return true
}

// closeStaleIssues sweeps every non-closed issue in the scan's scope and
// closes those no current finding still accounts for.
func (w *Worker) closeStaleIssues() {
	query := fingerprint.ScopeQuery(w.policy.IssueType, w.result.Context, w.policy.ClosedStatuses)
	issues, err := w.tracker.Search(w.policy.Project, query)
	if err != nil {
		w.logger.Error("failed to list issues for the stale pass", "error", err)
		w.outcome.RecordException(fmt.Errorf("search issues for stale pass: %w", err))
		return
	}

	for i := range issues {
		issue := &issues[i]
		if w.findingStillPresent(issue) {
			continue
		}
		acted, err := w.closeIssue(issue)
		if err != nil {
			w.logger.Error("failed to close issue", "key", issue.Key, "error", err)
			w.outcome.RecordException(err)
			continue
		}
		if !acted {
			w.logger.Info("no action taken now", "key", issue.Key)
		}
	}
}

// findingStillPresent reports whether any current finding's identity keys
// are all carried by the issue's labels.
func (w *Worker) findingStillPresent(issue *tracker.Issue) bool {
	for _, finding := range w.result.Findings {
		if fingerprint.ContainsAll(issue.Labels, finding.Keys) {
			return true
		}
	}
	return false
}

func (w *Worker) priorityName(rank int) string {
	name, err := w.tracker.PriorityName(rank)
	if err != nil {
		return fmt.Sprintf("%d", rank)
	}
	return name
}
