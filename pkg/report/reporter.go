// Package report renders scenario progress as checklists and
// summaries in JSON, Markdown and HTML, and keeps an append-only
// history of solved rules.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// HiddenTitle replaces the title of a rule that is not solved
// yet.
const HiddenTitle = "??? (Hidden)"

// Overridable for failure injection in tests.
var (
	jsonMarshal       = json.Marshal
	jsonMarshalIndent = json.MarshalIndent
)

// Reporter defines the interface for generating checklist reports.
type Reporter interface {
	// GenerateReport creates a report for a single scenario
	// checklist.
	GenerateReport(c *Checklist) ([]byte, error)

	// GenerateMasterSummary creates a summary of all scenario
	// checklists.
	GenerateMasterSummary(checklists []*Checklist) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, c *Checklist) error
}

// Item is one checklist row.
type Item struct {
	Number      int    `json:"number"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Explanation string `json:"explanation,omitempty"`
	Solved      bool   `json:"solved"`
}

// Checklist is the learner-facing view of a scenario's progress.
// Unsolved rules keep their position but not their content.
type Checklist struct {
	ScenarioID  scenario.ID `json:"scenario_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Type        string      `json:"type"`
	Solved      int         `json:"solved"`
	Total       int         `json:"total"`
	Percent     int         `json:"percent"`
	Complete    bool        `json:"complete"`
	Items       []Item      `json:"items"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// BuildChecklist combines a definition with its progress.
func BuildChecklist(
	def *scenario.Definition,
	snap progress.Snapshot,
) *Checklist {
	c := &Checklist{
		ScenarioID:  def.ID,
		Title:       def.Title,
		Description: def.Description,
		Difficulty:  string(def.Difficulty),
		Type:        string(def.Type),
		Total:       len(def.Rules),
		Items:       make([]Item, 0, len(def.Rules)),
		GeneratedAt: time.Now(),
	}

	for i, rule := range def.Rules {
		item := Item{Number: i + 1, Title: HiddenTitle}
		if snap.IsSolved(rule.ID) {
			item.ID = rule.ID
			item.Title = rule.Title
			item.Explanation = rule.Explanation
			item.Solved = true
			c.Solved++
		}
		c.Items = append(c.Items, item)
	}

	c.Percent = progress.Percent(c.Solved, c.Total)
	c.Complete = c.Percent == 100
	return c
}

// BuildChecklists builds one checklist per definition, looking up
// progress through fn.
func BuildChecklists(
	defs []*scenario.Definition,
	fn func(id scenario.ID) progress.Snapshot,
) []*Checklist {
	out := make([]*Checklist, 0, len(defs))
	for _, def := range defs {
		out = append(out, BuildChecklist(def, fn(def.ID)))
	}
	return out
}
