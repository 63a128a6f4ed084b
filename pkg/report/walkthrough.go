package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/walkthrough"
)

// WriteWalkthroughMarkdown renders a walkthrough result as a step
// table followed by the failed assertions.
func WriteWalkthroughMarkdown(
	w io.Writer,
	result *walkthrough.Result,
) error {
	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf("# Walkthrough: %s\n\n", result.Script),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Status:** %s | **Duration:** %v\n\n",
			strings.ToUpper(result.Status), result.Duration,
		),
	)

	sb.WriteString("| # | Step | Scenario | Action | Status | Progress |\n")
	sb.WriteString("|---|------|----------|--------|--------|----------|\n")
	for _, s := range result.Steps {
		name := s.Name
		if name == "" {
			name = "-"
		}
		sb.WriteString(
			fmt.Sprintf(
				"| %d | %s | %s | %s | %s | %d%% |\n",
				s.Index, escapeCell(name), s.ScenarioID,
				s.Action, strings.ToUpper(s.Status),
				s.Progress.Percent,
			),
		)
	}

	var failures []string
	for _, s := range result.Steps {
		if s.Error != "" {
			failures = append(failures,
				fmt.Sprintf("- step %d: %s", s.Index, s.Error),
			)
		}
		for _, a := range s.Assertions {
			if !a.Passed {
				failures = append(failures,
					fmt.Sprintf(
						"- step %d `%s`: %s",
						s.Index, a.Type, a.Message,
					),
				)
			}
		}
	}
	if len(failures) > 0 {
		sb.WriteString("\n## Failures\n\n")
		sb.WriteString(strings.Join(failures, "\n"))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
