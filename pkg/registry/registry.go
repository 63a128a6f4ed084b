// Package registry maps scenario identifiers to their definitions
// and detector factories.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// Sentinel errors returned by the registry.
var (
	ErrNotFound  = errors.New("scenario not found")
	ErrDuplicate = errors.New("scenario already registered")
	ErrMismatch  = errors.New("rule ids do not match")
)

// Entry pairs a scenario definition with the factory that builds
// its detector.
type Entry struct {
	Definition *scenario.Definition
	Factory    scenario.Factory
}

// Registry defines the interface for looking up scenarios.
type Registry interface {
	// Register adds an entry. Registration order is catalog
	// order.
	Register(e Entry) error

	// Get retrieves an entry by ID.
	Get(id scenario.ID) (Entry, error)

	// Definition retrieves a definition by ID.
	Definition(id scenario.ID) (*scenario.Definition, error)

	// Definitions returns every definition in catalog order.
	Definitions() []*scenario.Definition

	// ListByType returns the definitions of the given type in
	// catalog order.
	ListByType(t scenario.Type) []*scenario.Definition

	// NewDetector builds a fresh detector for id.
	NewDetector(
		id scenario.ID, clock scenario.Clock,
	) (scenario.Detector, error)

	// Override replaces the copy text of a registered
	// definition. The rule ids must match in order.
	Override(def *scenario.Definition) error

	// Count returns the number of registered scenarios.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu      sync.RWMutex
	order   []scenario.ID
	entries map[scenario.ID]Entry
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		entries: make(map[scenario.ID]Entry),
	}
}

// Register adds an entry. The definition is copied so later
// overrides never touch the scenario package's own value.
func (r *DefaultRegistry) Register(e Entry) error {
	if e.Definition == nil || e.Definition.ID == "" {
		return fmt.Errorf("register: definition with an id is required")
	}
	if e.Factory == nil {
		return fmt.Errorf(
			"register %s: factory is required", e.Definition.ID,
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := e.Definition.ID
	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}

	e.Definition = e.Definition.Clone()
	r.entries[id] = e
	r.order = append(r.order, id)
	return nil
}

// Get retrieves an entry by ID.
func (r *DefaultRegistry) Get(id scenario.ID) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[id]
	if !exists {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Definition retrieves a definition by ID.
func (r *DefaultRegistry) Definition(
	id scenario.ID,
) (*scenario.Definition, error) {
	e, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return e.Definition, nil
}

// Definitions returns every definition in catalog order.
func (r *DefaultRegistry) Definitions() []*scenario.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*scenario.Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].Definition)
	}
	return out
}

// ListByType returns definitions of type t in catalog order.
func (r *DefaultRegistry) ListByType(
	t scenario.Type,
) []*scenario.Definition {
	var out []*scenario.Definition
	for _, def := range r.Definitions() {
		if def.Type == t {
			out = append(out, def)
		}
	}
	return out
}

// NewDetector builds a fresh detector for id.
func (r *DefaultRegistry) NewDetector(
	id scenario.ID, clock scenario.Clock,
) (scenario.Detector, error) {
	e, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = scenario.SystemClock
	}
	return e.Factory(clock), nil
}

// Override replaces the title, description and rule texts of a
// registered definition. Difficulty and type are kept unless
// the override sets them.
func (r *DefaultRegistry) Override(def *scenario.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.entries[def.ID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, def.ID)
	}
	if !sameRuleIDs(e.Definition.RuleIDs(), def.RuleIDs()) {
		return fmt.Errorf("override %s: %w", def.ID, ErrMismatch)
	}

	merged := e.Definition.Clone()
	if def.Title != "" {
		merged.Title = def.Title
	}
	if def.Description != "" {
		merged.Description = def.Description
	}
	if def.Difficulty != "" {
		merged.Difficulty = def.Difficulty
	}
	if def.Type != "" {
		merged.Type = def.Type
	}
	for i, rule := range def.Rules {
		if rule.Title != "" {
			merged.Rules[i].Title = rule.Title
		}
		if rule.Explanation != "" {
			merged.Rules[i].Explanation = rule.Explanation
		}
	}

	e.Definition = merged
	r.entries[def.ID] = e
	return nil
}

// Count returns the number of registered scenarios.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func sameRuleIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
