package agegate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

func newGate() *Gate {
	return New(scenario.FixedClock(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	))
}

func TestGate_Submit_EdgeCases(t *testing.T) {
	tests := []struct {
		input string
		want  []string
		state State
	}{
		{"18", []string{MinBoundary}, StateGranted},
		{"17", []string{BelowMin}, StateDenied},
		{"-5", []string{Negative}, StateDenied},
		{"0", []string{Zero}, StateDenied},
		{"abc", []string{NonNumeric}, StateRejected},
		{"18.5", []string{Decimal}, StateGranted},
		{"17.0", []string{Decimal, BelowMin}, StateDenied},
		{"150", []string{UpperBoundary}, StateDenied},
		{"Infinity", []string{UpperBoundary}, StateDenied},
		{" 18 ", []string{MinBoundary}, StateGranted},
		{"0x12", []string{MinBoundary}, StateGranted},
		{"1.8e1", []string{Decimal, MinBoundary}, StateGranted},
		{"25", nil, StateGranted},
		{"5", nil, StateDenied},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g := newGate()
			es := g.Submit(tt.input)
			assert.Equal(t, tt.want, es.SolvedIDs())
			assert.Equal(t, tt.state, g.State())
			assert.Zero(t, es.Count(scenario.KindError))
		})
	}
}

func TestGate_Submit_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		g := newGate()
		es := g.Submit(in)
		require.Len(t, es, 1)
		assert.Equal(t, scenario.KindError, es[0].Kind)
		assert.Equal(t, StateRejected, g.State())
	}
}

func TestGate_Submit_ValidInfo(t *testing.T) {
	es := newGate().Submit("30")
	require.Len(t, es, 1)
	assert.Equal(t, scenario.KindInfo, es[0].Kind)
	assert.Equal(t, "Standard valid input.", es[0].Message)
}

func TestGate_Handle(t *testing.T) {
	g := newGate()
	es := g.Handle(scenario.NewAction("submit", "age", "18"))
	assert.True(t, es.Has(MinBoundary))

	es = g.Handle(scenario.NewAction("reset"))
	assert.Equal(t, StateIdle, g.State())
	assert.Equal(t, 1, es.Count(scenario.KindInfo))

	es = g.Handle(scenario.NewAction("jump"))
	require.Len(t, es, 1)
	assert.Equal(t, scenario.KindError, es[0].Kind)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"+7", 7},
		{"5.", 5},
		{".5", 0.5},
		{"1e3", 1000},
		{"0b101", 5},
		{"0o17", 15},
		{"0xff", 255},
		{"-Infinity", math.Inf(-1)},
		{"1e400", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNumber(tt.in))
		})
	}

	for _, bad := range []string{"12abc", "-0x10", "0x", "1_000", "infinity", "1.2.3"} {
		assert.True(t, math.IsNaN(parseNumber(bad)), bad)
	}
}

func TestDefinition_Rules(t *testing.T) {
	d := Definition()
	assert.Equal(t, ID, d.ID)
	assert.Len(t, d.Rules, 7)
}
