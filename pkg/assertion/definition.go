// Package assertion evaluates expectations against the outcome of a
// lab action: the detection events it produced and the scenario's
// progress afterwards. It ships with the lab evaluator types and
// supports custom evaluator registration.
package assertion

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Well-known targets passed to EvaluateAll.
const (
	// TargetEvents holds a scenario.Events value.
	TargetEvents = "events"
	// TargetProgress holds a progress.Snapshot value.
	TargetProgress = "progress"
)

// Definition describes a single expectation.
type Definition struct {
	// Type is the evaluator type (e.g., "fires", "min_percent").
	Type string `json:"type" yaml:"type"`

	// Target names the observed value to check. Empty means the
	// default target for Type.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Value is the expected value for single-value assertions.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds expected values for multi-value assertions
	// (e.g., "fires_only").
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Kind narrows the count evaluators to one event kind.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Message is a human-readable description shown on
	// failure.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// UnmarshalYAML accepts either a mapping or the compact
// "type:value" scalar form.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	type plain Definition
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("decode assertion: %w", err)
	}
	*d = Definition(p)
	return nil
}

// ResolvedTarget returns Target, falling back to the default
// target for the evaluator type.
func (d Definition) ResolvedTarget() string {
	if d.Target != "" {
		return d.Target
	}
	return DefaultTarget(d.Type)
}

// DefaultTarget maps an evaluator type to the value it reads.
func DefaultTarget(assertionType string) string {
	switch assertionType {
	case "min_percent", "complete", "solved":
		return TargetProgress
	}
	return TargetEvents
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Type is the assertion type that was evaluated.
	Type string `json:"type"`

	// Target is the name of the value checked.
	Target string `json:"target"`

	// Expected is the value the assertion expected.
	Expected any `json:"expected,omitempty"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}
