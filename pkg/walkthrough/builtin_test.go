package walkthrough

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/coupon"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/fileupload"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/searchbox"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/username"
)

// Rules no input can solve: the detectors report them as plain
// errors or informational messages.
var unreachable = map[scenario.ID][]string{
	username.ID:   {username.Empty},
	searchbox.ID:  {searchbox.Empty},
	fileupload.ID: {fileupload.Valid},
	coupon.ID:     {coupon.Invalid},
}

func TestBuiltin_OnePerScenario(t *testing.T) {
	scripts, err := Builtin()
	require.NoError(t, err)

	defs := registry.Builtin().Definitions()
	require.Len(t, scripts, len(defs))
	for i, def := range defs {
		assert.Equal(t, string(def.ID), scripts[i].Name)
		assert.Equal(t, []scenario.ID{def.ID}, scripts[i].Scenarios())
	}
}

func TestBuiltin_SolvesEveryReachableRule(t *testing.T) {
	scripts, err := Builtin()
	require.NoError(t, err)

	p, r := newPlayer(t)
	results, err := p.RunAll(context.Background(), scripts)
	require.NoError(t, err)
	require.Len(t, results, len(scripts))

	for _, res := range results {
		for _, step := range res.Steps {
			assert.Equal(t, StatusPassed, step.Status,
				"%s step %d (%s): %s %v",
				res.Script, step.Index, step.Name, step.Error,
				step.Assertions)
		}
	}

	for _, def := range r.Registry().Definitions() {
		snap, err := r.Progress(context.Background(), def.ID)
		require.NoError(t, err)

		skip := make(map[string]bool)
		for _, id := range unreachable[def.ID] {
			skip[id] = true
		}
		for _, rule := range def.Rules {
			if skip[rule.ID] {
				assert.False(t, snap.IsSolved(rule.ID),
					"%s/%s", def.ID, rule.ID)
				continue
			}
			assert.True(t, snap.IsSolved(rule.ID),
				"%s/%s not solved", def.ID, rule.ID)
		}
		assert.Equal(t, len(unreachable[def.ID]) == 0, snap.Complete,
			"%s", def.ID)
	}
}

func TestBuiltinFor(t *testing.T) {
	s, err := BuiltinFor("coupon-code")
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, s.Scenario)

	_, err = BuiltinFor("nope")
	assert.Error(t, err)
}
