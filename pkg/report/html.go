package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"
)

// HTMLReporter generates HTML reports from checklists.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single checklist.
func (r *HTMLReporter) GenerateReport(c *Checklist) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(w io.Writer, c *Checklist) error {
	r.writeHeader(w, "Scenario Report: "+c.Title)

	fmt.Fprintf(
		w,
		"<h1>Scenario Report: %s</h1>\n",
		html.EscapeString(c.Title),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Scenario ID:</strong> %s</p>\n",
		html.EscapeString(string(c.ScenarioID)),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		c.GeneratedAt.Format(time.RFC3339),
	)
	if c.Description != "" {
		fmt.Fprintf(
			w, "<p>%s</p>\n", html.EscapeString(c.Description),
		)
	}

	r.writeSummaryTable(w, c)
	r.writeChecklist(w, c)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(w io.Writer, c *Checklist) {
	statusClass := "status-passed"
	status := "COMPLETE"
	if !c.Complete {
		statusClass = "status-failed"
		status = "IN PROGRESS"
	}

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass, status,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Difficulty</td><td>%s</td></tr>\n",
		html.EscapeString(c.Difficulty),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Type</td><td>%s</td></tr>\n",
		html.EscapeString(c.Type),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Edge Cases Found</td><td>%d/%d (%d%%)</td></tr>\n",
		c.Solved, c.Total, c.Percent,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeChecklist(w io.Writer, c *Checklist) {
	if len(c.Items) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Checklist</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>#</th><th>Edge Case</th>"+
			"<th>Status</th><th>Why It Matters</th></tr>",
	)

	for _, item := range c.Items {
		if !item.Solved {
			fmt.Fprintf(
				w,
				"<tr><td>%d</td>"+
					"<td class=\"status-hidden\">%s</td>"+
					"<td>-</td><td></td></tr>\n",
				item.Number, html.EscapeString(item.Title),
			)
			continue
		}
		fmt.Fprintf(
			w,
			"<tr><td>%d</td><td>%s</td>"+
				"<td class=\"status-passed\">Found</td>"+
				"<td>%s</td></tr>\n",
			item.Number,
			html.EscapeString(item.Title),
			html.EscapeString(item.Explanation),
		)
	}

	fmt.Fprintln(w, "</table>")
}

// GenerateMasterSummary creates an HTML summary of all
// checklists.
func (r *HTMLReporter) GenerateMasterSummary(
	checklists []*Checklist,
) ([]byte, error) {
	var buf bytes.Buffer
	summary := BuildMasterSummary(checklists)

	r.writeHeader(&buf, "QA Labs - Master Summary")

	fmt.Fprintln(&buf, "<h1>QA Labs - Master Summary</h1>")
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339),
	)

	r.writeMasterOverview(&buf, summary)
	r.writeMasterStats(&buf, summary)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeMasterOverview(
	w io.Writer,
	summary *MasterSummary,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Scenario</th><th>Difficulty</th>"+
			"<th>Found</th><th>Progress</th></tr>",
	)

	for _, s := range summary.Scenarios {
		cls := "status-passed"
		if !s.Complete {
			cls = "status-failed"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td><td>%s</td>"+
				"<td>%d/%d</td>"+
				"<td class=\"%s\">%d%%</td></tr>\n",
			html.EscapeString(s.Title),
			html.EscapeString(s.Difficulty),
			s.Solved, s.Total,
			cls, s.Percent,
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeMasterStats(
	w io.Writer,
	summary *MasterSummary,
) {
	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Scenarios</td><td>%d</td></tr>\n",
		summary.TotalScenarios,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Completed</td><td>%d</td></tr>\n",
		summary.CompletedScenarios,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Edge Cases Found</td><td>%d/%d</td></tr>\n",
		summary.SolvedRules, summary.TotalRules,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Overall</td><td>%d%%</td></tr>\n",
		summary.Percent,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
.status-hidden { color: #95a5a6; font-style: italic; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(
		w, "<p>Generated by QA Labs</p>",
	)
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
