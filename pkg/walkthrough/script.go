// Package walkthrough replays scripted sequences of lab actions
// through a runner and checks each step against assertion
// expectations. Scripts are YAML documents.
package walkthrough

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/letsconfuse/manualQaLabs/pkg/assertion"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// ErrInvalidScript is wrapped by every validation failure.
var ErrInvalidScript = errors.New("invalid walkthrough")

// Script is an ordered list of steps. Steps inherit Scenario when
// they do not name their own.
type Script struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Scenario    scenario.ID `json:"scenario,omitempty" yaml:"scenario,omitempty"`

	// Now pins the scenario clock before the first step.
	Now string `json:"now,omitempty" yaml:"now,omitempty"`

	// ResetProgress clears the progress of every scenario the
	// script touches before it runs.
	ResetProgress bool `json:"reset_progress,omitempty" yaml:"reset_progress,omitempty"`

	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one action and its expectations.
type Step struct {
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Scenario scenario.ID       `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Action   string            `json:"action" yaml:"action"`
	Input    map[string]string `json:"input,omitempty" yaml:"input,omitempty"`

	// Now moves the scenario clock before the step runs. The
	// clock stays there for later steps.
	Now string `json:"now,omitempty" yaml:"now,omitempty"`

	// Fresh discards the scenario's session so the step starts
	// from a new detector.
	Fresh bool `json:"fresh,omitempty" yaml:"fresh,omitempty"`

	Expect []assertion.Definition `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// ScenarioFor returns the scenario the step runs against.
func (s *Script) ScenarioFor(step Step) scenario.ID {
	if step.Scenario != "" {
		return step.Scenario
	}
	return s.Scenario
}

// Scenarios lists the distinct scenarios the script touches, in
// first-use order.
func (s *Script) Scenarios() []scenario.ID {
	seen := make(map[scenario.ID]bool)
	var out []scenario.ID
	for _, step := range s.Steps {
		id := s.ScenarioFor(step)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Validate reports every structural problem in the script.
func (s *Script) Validate() error {
	var problems []string
	if strings.TrimSpace(s.Name) == "" {
		problems = append(problems, "name is required")
	}
	if len(s.Steps) == 0 {
		problems = append(problems, "at least one step is required")
	}
	if s.Now != "" {
		if _, err := ParseTime(s.Now); err != nil {
			problems = append(problems, err.Error())
		}
	}
	for i, step := range s.Steps {
		label := fmt.Sprintf("step %d", i+1)
		if step.Name != "" {
			label = fmt.Sprintf("step %d (%s)", i+1, step.Name)
		}
		if s.ScenarioFor(step) == "" {
			problems = append(problems, label+": scenario is required")
		}
		if strings.TrimSpace(step.Action) == "" {
			problems = append(problems, label+": action is required")
		}
		if step.Now != "" {
			if _, err := ParseTime(step.Now); err != nil {
				problems = append(problems, label+": "+err.Error())
			}
		}
		for j, e := range step.Expect {
			if e.Type == "" {
				problems = append(problems, fmt.Sprintf(
					"%s: expectation %d has no type", label, j+1,
				))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %s",
		ErrInvalidScript, s.Name, strings.Join(problems, "; "),
	)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads a clock setting. Values without an offset are
// in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// Load decodes and validates one script. Unknown keys are
// rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode walkthrough: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse is Load over a byte slice.
func Parse(data []byte) (*Script, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open walkthrough: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir reads every .yaml and .yml script in dir, sorted by
// file name.
func LoadDir(dir string) ([]*Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read walkthrough dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scripts := make([]*Script, 0, len(names))
	for _, name := range names {
		s, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
