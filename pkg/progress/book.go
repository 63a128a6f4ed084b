package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

// Catalog resolves scenario definitions. The registry satisfies
// it.
type Catalog interface {
	// Definition returns the definition registered under id.
	Definition(id scenario.ID) (*scenario.Definition, error)

	// Definitions returns every definition in catalog order.
	Definitions() []*scenario.Definition
}

// Book holds one tracker per scenario over a shared store.
// Trackers are created lazily on first use.
type Book struct {
	mu       sync.Mutex
	catalog  Catalog
	store    store.Store
	opts     []Option
	trackers map[scenario.ID]*Tracker
}

// NewBook creates a Book. The options are applied to every
// tracker it creates.
func NewBook(catalog Catalog, st store.Store, opts ...Option) *Book {
	if st == nil {
		st = store.NewMemory()
	}
	return &Book{
		catalog:  catalog,
		store:    st,
		opts:     opts,
		trackers: make(map[scenario.ID]*Tracker),
	}
}

// Store returns the backing store.
func (b *Book) Store() store.Store { return b.store }

// Tracker returns the tracker for id, creating it if needed.
func (b *Book) Tracker(
	ctx context.Context, id scenario.ID,
) (*Tracker, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.trackers[id]; ok {
		return t, nil
	}
	def, err := b.catalog.Definition(id)
	if err != nil {
		return nil, fmt.Errorf("progress for %s: %w", id, err)
	}
	t := NewTracker(ctx, def, b.store, b.opts...)
	b.trackers[id] = t
	return t, nil
}

// Record applies one event to the scenario's tracker.
func (b *Book) Record(
	ctx context.Context, id scenario.ID, e scenario.Event,
) (Change, error) {
	t, err := b.Tracker(ctx, id)
	if err != nil {
		return Change{}, err
	}
	return t.Record(ctx, e), nil
}

// Progress returns the scenario's snapshot.
func (b *Book) Progress(
	ctx context.Context, id scenario.ID,
) (Snapshot, error) {
	t, err := b.Tracker(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return t.Progress(), nil
}

// Reset clears the scenario's progress.
func (b *Book) Reset(ctx context.Context, id scenario.ID) error {
	t, err := b.Tracker(ctx, id)
	if err != nil {
		return err
	}
	t.Reset(ctx)
	return nil
}

// Snapshots returns a snapshot for every catalog scenario in
// catalog order.
func (b *Book) Snapshots(ctx context.Context) []Snapshot {
	defs := b.catalog.Definitions()
	out := make([]Snapshot, 0, len(defs))
	for _, def := range defs {
		t, err := b.Tracker(ctx, def.ID)
		if err != nil {
			continue
		}
		out = append(out, t.Progress())
	}
	return out
}
