// Package fingerprint derives the label-based identity of a finding and the
// tracker search predicates built from it. Two findings with equal
// fingerprints are the same tracked problem; label comparison is always
// case-insensitive.
package fingerprint

import (
	"sort"
	"strings"

	"github.com/scan-io-git/trackersync/internal/findings"
	"github.com/scan-io-git/trackersync/pkg/tracker"
)

// Fingerprint unions a finding's own identity keys with the scan context's
// scoping labels. The result is deduplicated case-insensitively and sorted,
// so equal inputs produce the same set regardless of ordering.
func Fingerprint(finding findings.Finding, ctx findings.ScanContext) []string {
	labels := append([]string{}, finding.Keys...)
	labels = append(labels, ctx.Labels()...)
	return Dedupe(labels)
}

// Dedupe removes case-insensitive duplicates, keeping the first spelling
// seen, and returns the set in sorted order.
func Dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether the label set carries the given label,
// case-insensitively.
func Contains(labels []string, label string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every label in want is present in labels,
// case-insensitively. The stale-issue pass uses this to decide whether a
// tracked issue still corresponds to a current finding.
func ContainsAll(labels, want []string) bool {
	for _, w := range want {
		if !Contains(labels, w) {
			return false
		}
	}
	return true
}

// FindingQuery builds the search predicate locating the single issue tracked
// for a finding: the configured issue type plus every fingerprint label.
func FindingQuery(issueType string, finding findings.Finding, ctx findings.ScanContext) tracker.Query {
	var q tracker.Query
	q.Add(tracker.ConditionType, tracker.Matching, issueType)
	for _, label := range ctx.Labels() {
		q.Add(tracker.ConditionLabel, tracker.Matching, label)
	}
	for _, key := range finding.Keys {
		q.Add(tracker.ConditionLabel, tracker.Matching, key)
	}
	return q
}

// ScopeQuery builds the predicate for the stale-issue pass: every issue of
// the configured type inside the scan context's label scope, excluding the
// given statuses.
func ScopeQuery(issueType string, ctx findings.ScanContext, excludeStatuses []string) tracker.Query {
	var q tracker.Query
	q.Add(tracker.ConditionType, tracker.Matching, issueType)
	for _, label := range ctx.Labels() {
		q.Add(tracker.ConditionLabel, tracker.Matching, label)
	}
	if len(excludeStatuses) > 0 {
		q.Add(tracker.ConditionStatus, tracker.NotMatching, excludeStatuses...)
	}
	return q
}
