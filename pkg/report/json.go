package report

import (
	"io"
	"time"
)

// JSONReporter generates JSON reports from checklists.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single checklist.
func (r *JSONReporter) GenerateReport(c *Checklist) ([]byte, error) {
	return r.marshal(c)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	GeneratedAt        time.Time    `json:"generated_at"`
	TotalScenarios     int          `json:"total_scenarios"`
	CompletedScenarios int          `json:"completed_scenarios"`
	SolvedRules        int          `json:"solved_rules"`
	TotalRules         int          `json:"total_rules"`
	Percent            int          `json:"percent"`
	Checklists         []*Checklist `json:"checklists"`
}

// GenerateMasterSummary creates a JSON summary of all checklists.
func (r *JSONReporter) GenerateMasterSummary(
	checklists []*Checklist,
) ([]byte, error) {
	s := BuildMasterSummary(checklists)
	return r.marshal(jsonMasterSummary{
		GeneratedAt:        s.GeneratedAt,
		TotalScenarios:     s.TotalScenarios,
		CompletedScenarios: s.CompletedScenarios,
		SolvedRules:        s.SolvedRules,
		TotalRules:         s.TotalRules,
		Percent:            s.Percent,
		Checklists:         checklists,
	})
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(w io.Writer, c *Checklist) error {
	data, err := r.GenerateReport(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}
