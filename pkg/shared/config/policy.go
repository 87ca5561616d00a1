package config

import (
	"strings"
	"time"

	"github.com/scan-io-git/trackersync/pkg/tracker"
)

// DefaultCommentInterval is the comment cooldown, in days, applied when an
// update action does not configure one.
const DefaultCommentInterval = 30

// Policy is the validated reconciliation configuration. It is loaded once at
// startup, validated, and then treated as immutable; workers share it by
// reference and never mutate it.
type Policy struct {
	Project   string `yaml:"project"`
	IssueType string `yaml:"issue_type"`

	SummaryUpdateAllowed     bool `yaml:"summary_update_allowed"`
	DescriptionUpdateAllowed bool `yaml:"description_update_allowed"`
	LabelUpdateAllowed       bool `yaml:"label_update_allowed"`
	ReprioritizeAllowed      bool `yaml:"reprioritize_allowed"`
	DeprioritizeAllowed      bool `yaml:"deprioritize_allowed"`

	PriorityMap  map[string]int         `yaml:"priority_map"`
	CustomFields map[string]interface{} `yaml:"custom_fields"`
	Users        Users                  `yaml:"users"`

	// Transitions is the tracker's workflow adjacency: status -> statuses
	// reachable from it in one hop.
	Transitions map[string][]string `yaml:"transitions"`

	OpenStatuses      []string `yaml:"open_statuses"`
	ResolvedStatuses  []string `yaml:"resolved_statuses"`
	ClosedStatuses    []string `yaml:"closed_statuses"`
	IgnorableLabels   []string `yaml:"ignorable_labels"`
	IgnorableStatuses []string `yaml:"ignorable_statuses"`

	ToOpen  *UpdateAction `yaml:"to_open"`
	ToClose *UpdateAction `yaml:"to_close"`
}

// Users carries the default assignee and subscriber list for new issues.
type Users struct {
	Assignee    string   `yaml:"assignee"`
	Subscribers []string `yaml:"subscribers"`
}

// UpdateAction configures one side of the reopen/close state machine.
type UpdateAction struct {
	StatusTransferable bool `yaml:"status_transferable"`
	Commentable        bool `yaml:"commentable"`
	// CommentInterval is the notification cooldown in days.
	CommentInterval int `yaml:"comment_interval"`
}

// Cooldown returns the comment cooldown as a duration.
func (a *UpdateAction) Cooldown() time.Duration {
	return time.Duration(a.CommentInterval) * 24 * time.Hour
}

func defaultUpdateAction() *UpdateAction {
	return &UpdateAction{
		StatusTransferable: true,
		Commentable:        true,
		CommentInterval:    DefaultCommentInterval,
	}
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// IsOpenStatus reports case-insensitive membership in the open category.
func (p *Policy) IsOpenStatus(status string) bool {
	return containsFold(p.OpenStatuses, status)
}

// IsResolvedStatus reports case-insensitive membership in the resolved category.
func (p *Policy) IsResolvedStatus(status string) bool {
	return containsFold(p.ResolvedStatuses, status)
}

// IsClosedStatus reports case-insensitive membership in the closed category.
func (p *Policy) IsClosedStatus(status string) bool {
	return containsFold(p.ClosedStatuses, status)
}

// ReopenWarranted reports whether finding the issue again in a scan is
// evidence of recurrence: the issue sits in a resolved or closed status and
// the reopen action can do something about it.
func (p *Policy) ReopenWarranted(status string) bool {
	if !p.ToOpen.StatusTransferable && !p.ToOpen.Commentable {
		return false
	}
	return p.IsResolvedStatus(status) || p.IsClosedStatus(status)
}

// ClosingAllowed reports whether the stale-issue pass runs at all.
func (p *Policy) ClosingAllowed() bool {
	return p.ToClose.StatusTransferable || p.ToClose.Commentable
}

// IsIssueIgnorable reports whether the issue carries an ignorable status or
// any ignorable label. Ignorable issues are never closed automatically.
func (p *Policy) IsIssueIgnorable(issue *tracker.Issue) bool {
	if containsFold(p.IgnorableStatuses, issue.Status) {
		return true
	}
	for _, label := range issue.Labels {
		if containsFold(p.IgnorableLabels, label) {
			return true
		}
	}
	return false
}
