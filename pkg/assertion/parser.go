package assertion

import (
	"errors"
	"strings"
)

// ErrEmptyAssertion is returned when a compact assertion string
// has no type.
var ErrEmptyAssertion = errors.New("empty assertion")

// ParseAssertionString parses a compact assertion string of the
// form "type:value" into its components. If no colon is present
// the entire string is treated as the type and value is nil.
//
// Examples:
//
//	"fires:zero"        -> ("fires", "zero")
//	"complete"          -> ("complete", nil)
//	"min_percent:50"    -> ("min_percent", "50")
func ParseAssertionString(
	s string,
) (assertionType string, value any) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	assertionType = strings.TrimSpace(parts[0])

	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}

	return
}

// Parse converts a compact assertion string into a Definition.
// For fires_only a comma-separated value becomes Values.
func Parse(s string) (Definition, error) {
	t, v := ParseAssertionString(s)
	if t == "" {
		return Definition{}, ErrEmptyAssertion
	}

	d := Definition{Type: t}
	str, _ := v.(string)
	if t == "fires_only" {
		if str != "" {
			for _, id := range strings.Split(str, ",") {
				d.Values = append(d.Values, strings.TrimSpace(id))
			}
		}
		return d, nil
	}
	if v != nil {
		d.Value = str
	}
	return d, nil
}
