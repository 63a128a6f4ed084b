package progress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

func testDefinition() *scenario.Definition {
	return &scenario.Definition{
		ID:    "demo",
		Title: "The Demo",
		Rules: []scenario.Rule{
			{ID: "one", Title: "One"},
			{ID: "two", Title: "Two"},
			{ID: "three", Title: "Three"},
		},
	}
}

func solve(id string) scenario.Event {
	return scenario.Event{
		Kind:       scenario.KindSuccess,
		EdgeCaseID: id,
		Timestamp:  time.Unix(0, 0),
	}
}

type faultyStore struct {
	loadErr, saveErr, deleteErr error
}

func (f faultyStore) Load(context.Context, string) ([]byte, error) {
	return nil, f.loadErr
}

func (f faultyStore) Save(context.Context, string, []byte) error {
	return f.saveErr
}

func (f faultyStore) Delete(context.Context, string) error {
	return f.deleteErr
}

func (faultyStore) Close() error { return nil }

func TestKey(t *testing.T) {
	assert.Equal(t, "progress:The Demo", Key(testDefinition()))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		solved, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
		{1, 2, 50},
		{0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.solved, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.solved, tt.total))
		})
	}
}

func TestTracker_Record(t *testing.T) {
	tests := []struct {
		name      string
		event     scenario.Event
		wantAdded bool
	}{
		{name: "known success", event: solve("two"), wantAdded: true},
		{name: "unknown id", event: solve("nope")},
		{name: "info with id", event: scenario.Event{Kind: scenario.KindInfo, EdgeCaseID: "one"}},
		{name: "error with id", event: scenario.Event{Kind: scenario.KindError, EdgeCaseID: "one"}},
		{name: "success without id", event: scenario.Event{Kind: scenario.KindSuccess}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(context.Background(), testDefinition(), nil)
			c := tr.Record(context.Background(), tt.event)
			assert.Equal(t, tt.wantAdded, c.Added)
			if tt.wantAdded {
				assert.Equal(t, []string{"two"}, c.Snapshot.Solved)
				assert.Equal(t, 33, c.Snapshot.Percent)
			} else {
				assert.Empty(t, c.Snapshot.Solved)
				assert.Empty(t, c.EdgeCaseID)
			}
		})
	}
}

func TestTracker_Record_Idempotent(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(ctx, testDefinition(), nil)

	first := tr.Record(ctx, solve("one"))
	second := tr.Record(ctx, solve("one"))

	assert.True(t, first.Added)
	assert.False(t, second.Added)
	assert.Equal(t, []string{"one"}, tr.Progress().Solved)
}

func TestTracker_CompletionFiresOnce(t *testing.T) {
	ctx := context.Background()
	var fired []Snapshot
	tr := NewTracker(ctx, testDefinition(), nil,
		OnComplete(func(s Snapshot) { fired = append(fired, s) }),
	)

	var completed int
	for _, id := range []string{"three", "one", "two", "two", "one"} {
		if tr.Record(ctx, solve(id)).Completed {
			completed++
		}
	}

	assert.Equal(t, 1, completed)
	require.Len(t, fired, 1)
	assert.True(t, fired[0].Complete)
	assert.Equal(t, []string{"one", "two", "three"}, fired[0].Solved)

	tr.Reset(ctx)
	assert.Equal(t, 0, tr.Progress().Percent)
	tr.RecordAll(ctx, scenario.Events{solve("one"), solve("two"), solve("three")})
	assert.Len(t, fired, 2)
}

func TestTracker_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	tr := NewTracker(ctx, testDefinition(), st)
	tr.Record(ctx, solve("three"))
	tr.Record(ctx, solve("one"))

	data, err := st.Load(ctx, "progress:The Demo")
	require.NoError(t, err)
	assert.JSONEq(t, `["one","three"]`, string(data))

	restored := NewTracker(ctx, testDefinition(), st)
	assert.Equal(t, tr.Progress(), restored.Progress())
}

func TestTracker_LoadedCompleteDoesNotRefire(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Save(ctx, "progress:The Demo", []byte(`["one","two","three"]`)))

	fired := 0
	tr := NewTracker(ctx, testDefinition(), st,
		OnComplete(func(Snapshot) { fired++ }),
	)
	tr.Record(ctx, solve("one"))

	assert.True(t, tr.Progress().Complete)
	assert.Zero(t, fired)
}

func TestTracker_LoadFailuresStartEmpty(t *testing.T) {
	ctx := context.Background()
	corrupt := store.NewMemory()
	require.NoError(t, corrupt.Save(ctx, "progress:The Demo", []byte(`{not json`)))
	unknown := store.NewMemory()
	require.NoError(t, unknown.Save(ctx, "progress:The Demo", []byte(`["ghost","two"]`)))

	tests := []struct {
		name     string
		store    store.Store
		want     []string
		wantWarn bool
	}{
		{name: "missing", store: store.NewMemory(), want: []string{}},
		{name: "corrupt", store: corrupt, want: []string{}, wantWarn: true},
		{name: "load error", store: faultyStore{loadErr: errors.New("disk gone")}, want: []string{}, wantWarn: true},
		{name: "unknown ids filtered", store: unknown, want: []string{"two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := NewTracker(ctx, testDefinition(), tt.store,
				WithLogger(logging.NewWriterLogger(&buf, logging.LevelInfo, false)),
			)
			assert.Equal(t, tt.want, tr.Progress().Solved)
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "WARN")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestTracker_SaveAndDeleteFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	tr := NewTracker(ctx, testDefinition(),
		faultyStore{
			loadErr:   store.ErrNotFound,
			saveErr:   errors.New("read-only"),
			deleteErr: errors.New("read-only"),
		},
		WithLogger(logging.NewWriterLogger(&buf, logging.LevelInfo, false)),
	)

	c := tr.Record(ctx, solve("one"))
	assert.True(t, c.Added)
	assert.Contains(t, buf.String(), "progress save failed")

	tr.Reset(ctx)
	assert.Contains(t, buf.String(), "progress reset failed")
	assert.Empty(t, tr.Progress().Solved)
}

func TestTracker_ResetClearsStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	tr := NewTracker(ctx, testDefinition(), st)
	tr.Record(ctx, solve("one"))
	require.Equal(t, 1, st.Len())

	tr.Reset(ctx)

	_, err := st.Load(ctx, Key(testDefinition()))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, tr.Progress().Percent)
	assert.False(t, tr.Progress().Complete)
}

func TestSnapshot_IsSolved(t *testing.T) {
	s := Snapshot{Solved: []string{"a", "b"}}
	assert.True(t, s.IsSolved("b"))
	assert.False(t, s.IsSolved("c"))
}
