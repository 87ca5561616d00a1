// Package sarif converts SARIF reports into the engine's finding model.
// SARIF is the only ingestion format: scanner-specific parsing stays in the
// scanners themselves.
package sarif

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/trackersync/internal/findings"
)

// severityRanks maps SARIF levels onto the numeric priority scale used by
// the reconciliation policy.
var severityRanks = map[string]int{
	"error":   3,
	"warning": 2,
	"note":    1,
	"none":    1,
}

func readReport(inputPath string) (*sarif.Report, error) {
	jsonFile, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer jsonFile.Close()

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, err
	}
	var sarifReport sarif.Report
	if err := json.Unmarshal(byteValue, &sarifReport); err != nil {
		return nil, fmt.Errorf("unmarshal sarif report: %w", err)
	}
	return &sarifReport, nil
}

// CollectFindings loads the SARIF file and flattens its results into
// findings. The returned tool name comes from the report's first run driver.
func CollectFindings(logger hclog.Logger, inputPath string) (string, []findings.Finding, error) {
	report, err := readReport(inputPath)
	if err != nil {
		return "", nil, fmt.Errorf("read sarif report: %w", err)
	}
	return collect(logger, report)
}

func collect(logger hclog.Logger, report *sarif.Report) (string, []findings.Finding, error) {
	if report == nil || len(report.Runs) == 0 {
		return "", nil, fmt.Errorf("sarif report has no runs")
	}

	toolName := ""
	var collected []findings.Finding

	for _, run := range report.Runs {
		if run.Tool.Driver != nil && toolName == "" {
			toolName = run.Tool.Driver.Name
		}

		rulesByID := map[string]*sarif.ReportingDescriptor{}
		if run.Tool.Driver != nil {
			for _, r := range run.Tool.Driver.Rules {
				if r == nil {
					continue
				}
				if id := strings.TrimSpace(r.ID); id != "" {
					rulesByID[id] = r
				}
			}
		}

		for _, res := range run.Results {
			ruleID := ""
			if res.RuleID != nil {
				ruleID = strings.TrimSpace(*res.RuleID)
			}
			if ruleID == "" {
				logger.Warn("SARIF result missing rule ID, skipping", "collected", len(collected))
				continue
			}

			fileURI := extractFileURI(res)
			finding := findings.Finding{
				Title:       buildTitle(ruleID, fileURI),
				Description: buildDescription(res, rulesByID[ruleID]),
				Priority:    severityRank(res),
			}
			finding.AddKey(ruleID)
			if fileURI != "" {
				finding.AddKey(fileURI)
			}
			for _, tag := range ruleTags(rulesByID[ruleID]) {
				finding.AddTag(tag)
			}

			collected = append(collected, finding)
		}
	}
	return toolName, collected, nil
}

// buildTitle creates a concise issue title from the rule ID and location.
func buildTitle(ruleID, fileURI string) string {
	if fileURI == "" {
		return ruleID
	}
	return fmt.Sprintf("%s in %s", ruleID, fileURI)
}

// buildDescription combines the result message with the rule's descriptive
// text, preferring markdown help when the rule carries it.
func buildDescription(res *sarif.Result, rule *sarif.ReportingDescriptor) string {
	var parts []string
	if res.Message.Text != nil {
		if text := strings.TrimSpace(*res.Message.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if rule != nil {
		if rule.Help != nil && rule.Help.Markdown != nil {
			if help := strings.TrimSpace(*rule.Help.Markdown); help != "" {
				parts = append(parts, help)
			}
		} else if rule.FullDescription != nil && rule.FullDescription.Text != nil {
			if desc := strings.TrimSpace(*rule.FullDescription.Text); desc != "" {
				parts = append(parts, desc)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

func extractFileURI(res *sarif.Result) string {
	if len(res.Locations) == 0 {
		return ""
	}
	loc := res.Locations[0]
	if loc.PhysicalLocation == nil || loc.PhysicalLocation.ArtifactLocation == nil ||
		loc.PhysicalLocation.ArtifactLocation.URI == nil {
		return ""
	}
	return strings.TrimSpace(*loc.PhysicalLocation.ArtifactLocation.URI)
}

func severityRank(res *sarif.Result) int {
	level := ""
	if res.Level != nil {
		level = strings.ToLower(strings.TrimSpace(*res.Level))
	}
	if rank, ok := severityRanks[level]; ok {
		return rank
	}
	return severityRanks["warning"]
}

// ruleTags pulls the security identifier tags (CWE, OWASP and friends) from
// rule properties.
func ruleTags(rule *sarif.ReportingDescriptor) []string {
	if rule == nil || rule.Properties == nil {
		return nil
	}
	v, ok := rule.Properties["tags"]
	if !ok || v == nil {
		return nil
	}
	var tags []string
	switch tv := v.(type) {
	case []string:
		tags = tv
	case []interface{}:
		for _, it := range tv {
			if s, ok := it.(string); ok {
				tags = append(tags, s)
			}
		}
	}
	return tags
}
