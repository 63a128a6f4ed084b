package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// MasterSummary represents an aggregated summary of all
// scenario checklists.
type MasterSummary struct {
	ID                 string            `json:"id"`
	GeneratedAt        time.Time         `json:"generated_at"`
	Scenarios          []ScenarioSummary `json:"scenarios"`
	TotalScenarios     int               `json:"total_scenarios"`
	CompletedScenarios int               `json:"completed_scenarios"`
	SolvedRules        int               `json:"solved_rules"`
	TotalRules         int               `json:"total_rules"`
	Percent            int               `json:"percent"`
}

// ScenarioSummary represents a summary of a single scenario.
type ScenarioSummary struct {
	ScenarioID scenario.ID `json:"scenario_id"`
	Title      string      `json:"title"`
	Difficulty string      `json:"difficulty"`
	Solved     int         `json:"solved"`
	Total      int         `json:"total"`
	Percent    int         `json:"percent"`
	Complete   bool        `json:"complete"`
}

// BuildMasterSummary creates a master summary from checklists.
// The overall percentage counts rules, not scenarios.
func BuildMasterSummary(checklists []*Checklist) *MasterSummary {
	now := time.Now()
	summary := &MasterSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			now.Format("20060102_150405"),
		),
		GeneratedAt: now,
		Scenarios: make(
			[]ScenarioSummary, 0, len(checklists),
		),
	}

	for _, c := range checklists {
		summary.Scenarios = append(summary.Scenarios, ScenarioSummary{
			ScenarioID: c.ScenarioID,
			Title:      c.Title,
			Difficulty: c.Difficulty,
			Solved:     c.Solved,
			Total:      c.Total,
			Percent:    c.Percent,
			Complete:   c.Complete,
		})
		summary.TotalScenarios++
		summary.SolvedRules += c.Solved
		summary.TotalRules += c.Total
		if c.Complete {
			summary.CompletedScenarios++
		}
	}

	summary.Percent = progress.Percent(
		summary.SolvedRules, summary.TotalRules,
	)
	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory and points the
// latest_summary links at them.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.md", ts),
	)
	if err := os.WriteFile(
		mdPath, []byte(generateSummaryMarkdown(summary)), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# QA Labs - Master Summary\n\n")
	sb.WriteString(
		fmt.Sprintf("**Summary ID:** %s\n\n", summary.ID),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Scenario | Difficulty | Solved | Progress |\n")
	sb.WriteString("|----------|------------|--------|----------|\n")

	for _, s := range summary.Scenarios {
		status := fmt.Sprintf("%d%%", s.Percent)
		if s.Complete {
			status += " (complete)"
		}
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %d/%d | %s |\n",
				s.Title, s.Difficulty,
				s.Solved, s.Total, status,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Scenarios | %d |\n", summary.TotalScenarios,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Completed | %d |\n", summary.CompletedScenarios,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Edge Cases Found | %d/%d |\n",
			summary.SolvedRules, summary.TotalRules,
		),
	)
	sb.WriteString(
		fmt.Sprintf("| Overall | %d%% |\n", summary.Percent),
	)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by QA Labs*\n")

	return sb.String()
}
