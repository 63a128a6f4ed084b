package agegate

import (
	"fmt"
	"math"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// State is the gate's verification state.
type State string

// Gate states. Idle is the state before any submission.
const (
	StateIdle     State = "idle"
	StateGranted  State = "granted"
	StateDenied   State = "denied"
	StateRejected State = "rejected"
)

// Access bounds for a granted verification.
const (
	MinAge = 18
	MaxAge = 120
)

// Gate is the age verification detector.
type Gate struct {
	scenario.Base
	state State
	value float64
}

// New creates a Gate in the idle state.
func New(clock scenario.Clock) *Gate {
	return &Gate{
		Base:  scenario.NewBase(Definition(), clock),
		state: StateIdle,
	}
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// State returns the state reached by the last submission.
func (g *Gate) State() State { return g.state }

// Value returns the parsed value of the last numeric submission.
func (g *Gate) Value() float64 { return g.value }

// Reset returns the gate to the idle state.
func (g *Gate) Reset() {
	g.state = StateIdle
	g.value = 0
}

// Submit classifies a raw age entry.
func (g *Gate) Submit(raw string) scenario.Events {
	r := g.Recorder()

	if strings.TrimSpace(raw) == "" {
		g.state = StateRejected
		r.Error("Input is empty.")
		return r.Events()
	}

	num := parseNumber(raw)
	if math.IsNaN(num) {
		g.state = StateRejected
		r.Success(NonNumeric, "Reproduced bug: System accepts text but fails logic.")
		return r.Events()
	}

	g.value = num
	if num >= MinAge && num <= MaxAge {
		g.state = StateGranted
	} else {
		g.state = StateDenied
	}

	if strings.Contains(raw, ".") {
		r.Success(Decimal, "Edge case found: Decimal age.")
	}

	switch {
	case num < 0:
		r.Success(Negative, "Edge case found: Negative age.")
	case num == 0:
		r.Success(Zero, "Edge case found: Age is 0.")
	case num == 17:
		r.Success(BelowMin, "Boundary found: 17 (Just below limit).")
	case num == MinAge:
		r.Success(MinBoundary, "Boundary found: 18 (Exact limit).")
	case num > MaxAge:
		r.Success(UpperBoundary, "Edge case found: Unrealistic age.")
	case num > MinAge:
		r.Info("Standard valid input.")
	default:
		r.Info("Standard invalid input.")
	}
	return r.Events()
}

// Handle dispatches "submit" (input "age") and "reset".
func (g *Gate) Handle(a scenario.Action) scenario.Events {
	switch a.Name {
	case "submit":
		return g.Submit(a.Get("age"))
	case "reset":
		g.Reset()
		r := g.Recorder()
		r.Info(fmt.Sprintf("Gate reset to %s.", g.state))
		return r.Events()
	default:
		return g.Unknown(a)
	}
}
