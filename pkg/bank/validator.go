package bank

import (
	"fmt"
	"os"

	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// ValidationError represents a validation issue found in a bank file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("scenarios[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validDifficulties = map[scenario.Difficulty]bool{
		scenario.DifficultyEasy:   true,
		scenario.DifficultyMedium: true,
		scenario.DifficultyHard:   true,
	}
	validTypes = map[scenario.Type]bool{
		scenario.TypeValidation: true,
		scenario.TypeSecurity:   true,
		scenario.TypeLogic:      true,
	}
)

// ValidateFile validates a bank file structure and returns all errors found.
func ValidateFile(path string) []ValidationError {
	return ValidateFileWith(path, nil)
}

// ValidateFileWith validates a bank file and, when reg is not
// nil, checks every scenario against the registered rule lists.
func ValidateFileWith(path string, reg registry.Registry) []ValidationError {
	format, err := FormatFromPath(path)
	if err != nil {
		return []ValidationError{{Field: "file", Message: err.Error(), Index: -1}}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{Field: "file", Message: err.Error(), Index: -1}}
	}
	file, err := Decode(data, format)
	if err != nil {
		return []ValidationError{{Field: string(format), Message: err.Error(), Index: -1}}
	}
	return Validate(file, reg)
}

// Validate checks a decoded bank file. A nil registry skips the
// catalog checks.
func Validate(file File, reg registry.Registry) []ValidationError {
	var errors []ValidationError

	if file.Version == "" {
		errors = append(errors, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}
	if len(file.Scenarios) == 0 {
		errors = append(errors, ValidationError{
			Field: "scenarios", Message: "at least one scenario is required", Index: -1,
		})
	}

	ids := make(map[scenario.ID]bool)
	for i, sc := range file.Scenarios {
		if sc.ID == "" {
			errors = append(errors, ValidationError{
				Field: "id", Message: "scenario ID is required", Index: i,
			})
		} else if ids[sc.ID] {
			errors = append(errors, ValidationError{
				Field: "id", Message: fmt.Sprintf("duplicate ID: %s", sc.ID), Index: i,
			})
		} else {
			ids[sc.ID] = true
		}

		if sc.Difficulty != "" && !validDifficulties[sc.Difficulty] {
			errors = append(errors, ValidationError{
				Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", sc.Difficulty), Index: i,
			})
		}
		if sc.Type != "" && !validTypes[sc.Type] {
			errors = append(errors, ValidationError{
				Field: "type", Message: fmt.Sprintf("unknown type %q", sc.Type), Index: i,
			})
		}
		errors = append(errors, validateRules(i, sc.Rules)...)

		if reg != nil && sc.ID != "" {
			errors = append(errors, validateAgainst(i, sc, reg)...)
		}
	}

	return errors
}

func validateRules(index int, rules []scenario.Rule) []ValidationError {
	var errors []ValidationError
	if len(rules) == 0 {
		errors = append(errors, ValidationError{
			Field: "rules", Message: "at least one rule is required", Index: index,
		})
	}
	seen := make(map[string]bool)
	for j, r := range rules {
		field := fmt.Sprintf("rules[%d].id", j)
		switch {
		case r.ID == "":
			errors = append(errors, ValidationError{
				Field: field, Message: "rule ID is required", Index: index,
			})
		case seen[r.ID]:
			errors = append(errors, ValidationError{
				Field: field, Message: fmt.Sprintf("duplicate rule ID: %s", r.ID), Index: index,
			})
		default:
			seen[r.ID] = true
		}
	}
	return errors
}

func validateAgainst(index int, sc scenario.Definition, reg registry.Registry) []ValidationError {
	def, err := reg.Definition(sc.ID)
	if err != nil {
		return []ValidationError{{
			Field: "id", Message: fmt.Sprintf("unknown scenario: %s", sc.ID), Index: index,
		}}
	}

	want := def.RuleIDs()
	got := sc.RuleIDs()
	if len(want) != len(got) {
		return []ValidationError{{
			Field:   "rules",
			Message: fmt.Sprintf("expected %d rules, got %d", len(want), len(got)),
			Index:   index,
		}}
	}
	var errors []ValidationError
	for j := range want {
		if want[j] != got[j] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("rules[%d].id", j),
				Message: fmt.Sprintf("expected %q, got %q", want[j], got[j]),
				Index:   index,
			})
		}
	}
	return errors
}
