package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// MarkdownReporter generates Markdown reports from checklists.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single
// checklist.
func (r *MarkdownReporter) GenerateReport(c *Checklist) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(w io.Writer, c *Checklist) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", c.Title))
	sb.WriteString(
		fmt.Sprintf("**Scenario ID:** %s\n\n", c.ScenarioID),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Difficulty:** %s | **Type:** %s\n\n",
			c.Difficulty, c.Type,
		),
	)
	if c.Description != "" {
		sb.WriteString(c.Description + "\n\n")
	}
	sb.WriteString(
		fmt.Sprintf(
			"**Progress:** %d/%d (%d%%)\n\n",
			c.Solved, c.Total, c.Percent,
		),
	)

	sb.WriteString("| # | Edge Case | Status |\n")
	sb.WriteString("|---|-----------|--------|\n")
	for _, item := range c.Items {
		status := "-"
		if item.Solved {
			status = "Found"
		}
		sb.WriteString(
			fmt.Sprintf(
				"| %d | %s | %s |\n",
				item.Number, escapeCell(item.Title), status,
			),
		)
	}

	var found []Item
	for _, item := range c.Items {
		if item.Solved && item.Explanation != "" {
			found = append(found, item)
		}
	}
	if len(found) > 0 {
		sb.WriteString("\n## Why It Matters\n\n")
		for _, item := range found {
			sb.WriteString(
				fmt.Sprintf(
					"- **%s:** %s\n",
					item.Title, item.Explanation,
				),
			)
		}
	}

	if c.Complete {
		sb.WriteString("\nAll edge cases found.\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// GenerateMasterSummary creates a Markdown summary of all
// checklists.
func (r *MarkdownReporter) GenerateMasterSummary(
	checklists []*Checklist,
) ([]byte, error) {
	return []byte(
		generateSummaryMarkdown(BuildMasterSummary(checklists)),
	), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
