package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

func TestCart_Apply_StackingReducesOnce(t *testing.T) {
	c := New(nil)
	es := c.Apply("SAVE10")
	assert.Empty(t, es.SolvedIDs())
	assert.Equal(t, 90, c.Total())

	es = c.Apply("SAVE10")
	assert.Equal(t, []string{Stacking}, es.SolvedIDs())
	assert.Equal(t, 90, c.Total())
	assert.Equal(t, []string{"SAVE10"}, c.Applied())
}

func TestCart_Apply_CaseThenStacking(t *testing.T) {
	c := New(nil)
	c.Apply("VIP50")
	es := c.Apply("vip50")
	assert.Equal(t, []string{Case, Stacking}, es.SolvedIDs())
}

func TestCart_Apply_CaseStillApplies(t *testing.T) {
	c := New(nil)
	es := c.Apply("save10")
	assert.Equal(t, []string{Case}, es.SolvedIDs())
	assert.Equal(t, 90, c.Total())
}

func TestCart_Apply_Codes(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		want  []string
		total int
	}{
		{"expired", "SUMMER2020", []string{Expired}, 100},
		{"expired lower", "summer2020", []string{Case, Expired}, 100},
		{"negative", "MEGA1000", []string{Negative}, 0},
		{"sqli quote", "x' OR 1", []string{SQLi}, 100},
		{"sqli comment", "SAVE10--", []string{SQLi}, 100},
		{"unknown", "FREEBIE", nil, 100},
		{"padded", "  SAVE10  ", nil, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			es := c.Apply(tt.code)
			assert.Equal(t, tt.want, es.SolvedIDs())
			assert.Equal(t, tt.total, c.Total())
		})
	}
}

func TestCart_Apply_MegaRecordedAfterFloor(t *testing.T) {
	c := New(nil)
	c.Apply("MEGA1000")
	es := c.Apply("MEGA1000")
	assert.Equal(t, []string{Stacking}, es.SolvedIDs())
	assert.Equal(t, 0, c.Total())
}

func TestCart_Apply_InvalidNeverSolves(t *testing.T) {
	es := New(nil).Apply("NOPE")
	assert.False(t, es.Has(Invalid))
	assert.Equal(t, 2, es.Count(scenario.KindInfo))
}

func TestCart_Apply_Empty(t *testing.T) {
	es := New(nil).Apply("   ")
	require.Len(t, es, 1)
	assert.Equal(t, scenario.KindError, es[0].Kind)
}

func TestCart_Reset(t *testing.T) {
	c := New(nil)
	c.Apply("VIP50")
	c.Reset()
	assert.Equal(t, StartingTotal, c.Total())
	assert.Empty(t, c.Applied())

	es := c.Apply("VIP50")
	assert.Empty(t, es.SolvedIDs())
}

func TestCart_Handle(t *testing.T) {
	c := New(nil)
	assert.True(t, c.Handle(scenario.NewAction("apply", "code", "SUMMER2020")).Has(Expired))
	c.Handle(scenario.NewAction("apply", "code", "SAVE10"))
	c.Handle(scenario.NewAction("reset"))
	assert.Equal(t, StartingTotal, c.Total())
	assert.Equal(t, 1, c.Handle(scenario.NewAction("remove")).Count(scenario.KindError))
}
