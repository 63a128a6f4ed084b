package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is the uniform envelope used to drive any detector. Name
// selects the operation; Input carries its raw string arguments.
type Action struct {
	Name  string            `json:"action" yaml:"action"`
	Input map[string]string `json:"input,omitempty" yaml:"input,omitempty"`
}

// NewAction builds an action from alternating key/value pairs. A
// trailing key without a value is ignored.
func NewAction(name string, kv ...string) Action {
	a := Action{Name: name, Input: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		a.Input[kv[i]] = kv[i+1]
	}
	return a
}

// Get returns the raw input value for key, or "" if absent.
func (a Action) Get(key string) string {
	if a.Input == nil {
		return ""
	}
	return a.Input[key]
}

// Lookup returns the raw input value and whether it was present.
func (a Action) Lookup(key string) (string, bool) {
	if a.Input == nil {
		return "", false
	}
	v, ok := a.Input[key]
	return v, ok
}

// Int parses the input value for key as a base-10 integer.
func (a Action) Int(key string) (int64, error) {
	raw := strings.TrimSpace(a.Get(key))
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("input %s: %q is not an integer", key, raw)
	}
	return n, nil
}

// Float parses the input value for key as a float.
func (a Action) Float(key string) (float64, error) {
	raw := strings.TrimSpace(a.Get(key))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("input %s: %q is not a number", key, raw)
	}
	return f, nil
}

// Bool parses the input value for key as a boolean.
func (a Action) Bool(key string) (bool, error) {
	raw := strings.TrimSpace(a.Get(key))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("input %s: %q is not a boolean", key, raw)
	}
	return b, nil
}
