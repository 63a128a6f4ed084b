package assertion

import (
	"fmt"
	"sort"
	"sync"
)

// Engine defines the interface for assertion evaluation engines.
type Engine interface {
	// Evaluate checks a single assertion against the given
	// value.
	Evaluate(assertion Definition, value any) Result

	// EvaluateAll checks multiple assertions against a map of
	// named values, keyed by each assertion's resolved target.
	EvaluateAll(
		assertions []Definition,
		values map[string]any,
	) []Result

	// Register adds a custom evaluator for the given assertion
	// type. Returns an error if the type is already registered.
	Register(assertionType string, evaluator Evaluator) error
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use.
type DefaultEngine struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewEngine creates a DefaultEngine with the lab evaluators
// pre-registered.
func NewEngine() *DefaultEngine {
	e := &DefaultEngine{
		evaluators: make(map[string]Evaluator),
	}
	e.registerDefaults()
	return e
}

// Builtin evaluator type names.
const (
	TypeFires           = "fires"
	TypeNotFires        = "not_fires"
	TypeFiresOnly       = "fires_only"
	TypeExactCount      = "exact_count"
	TypeMinCount        = "min_count"
	TypeMessageContains = "message_contains"
	TypeMinPercent      = "min_percent"
	TypeComplete        = "complete"
	TypeSolved          = "solved"
)

func (e *DefaultEngine) registerDefaults() {
	e.evaluators[TypeFires] = evaluateFires
	e.evaluators[TypeNotFires] = evaluateNotFires
	e.evaluators[TypeFiresOnly] = evaluateFiresOnly
	e.evaluators[TypeExactCount] = evaluateExactCount
	e.evaluators[TypeMinCount] = evaluateMinCount
	e.evaluators[TypeMessageContains] = evaluateMessageContains
	e.evaluators[TypeMinPercent] = evaluateMinPercent
	e.evaluators[TypeComplete] = evaluateComplete
	e.evaluators[TypeSolved] = evaluateSolved
}

// Register adds a custom evaluator for the given assertion type.
// Returns an error if the type is already registered.
func (e *DefaultEngine) Register(
	assertionType string,
	evaluator Evaluator,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.evaluators[assertionType]; exists {
		return fmt.Errorf(
			"assertion type already registered: %s",
			assertionType,
		)
	}

	e.evaluators[assertionType] = evaluator
	return nil
}

// Evaluate runs a single assertion against the provided value.
func (e *DefaultEngine) Evaluate(
	assertion Definition,
	value any,
) Result {
	e.mu.RLock()
	evaluator, exists := e.evaluators[assertion.Type]
	e.mu.RUnlock()

	target := assertion.ResolvedTarget()
	if !exists {
		return Result{
			Type:   assertion.Type,
			Target: target,
			Passed: false,
			Message: fmt.Sprintf(
				"unknown assertion type: %s",
				assertion.Type,
			),
		}
	}

	passed, message := evaluator(assertion, value)

	return Result{
		Type:     assertion.Type,
		Target:   target,
		Expected: expected(assertion),
		Passed:   passed,
		Message:  message,
	}
}

// EvaluateAll runs multiple assertions against a map of named
// values. Each assertion's resolved target is used as the key
// into the values map. If a target is missing, the assertion
// fails.
func (e *DefaultEngine) EvaluateAll(
	assertions []Definition,
	values map[string]any,
) []Result {
	results := make([]Result, 0, len(assertions))

	for _, a := range assertions {
		target := a.ResolvedTarget()
		value, exists := values[target]
		if !exists {
			results = append(results, Result{
				Type:   a.Type,
				Target: target,
				Passed: false,
				Message: fmt.Sprintf(
					"target not found: %s", target,
				),
			})
			continue
		}

		results = append(results, e.Evaluate(a, value))
	}

	return results
}

// HasEvaluator returns true if the given assertion type has a
// registered evaluator.
func (e *DefaultEngine) HasEvaluator(
	assertionType string,
) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.evaluators[assertionType]
	return exists
}

// Types lists the registered assertion types in sorted order.
func (e *DefaultEngine) Types() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]string, 0, len(e.evaluators))
	for t := range e.evaluators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func expected(a Definition) any {
	if a.Value == nil && len(a.Values) > 0 {
		return a.Values
	}
	return a.Value
}
