// Package bank loads, validates and exports scenario banks: files
// that carry scenario definitions in JSON or YAML. Loaded banks
// override the copy text of registered scenarios.
package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// Bank manages scenario definitions loaded from files. Later
// files replace earlier definitions with the same id.
type Bank struct {
	mu          sync.RWMutex
	definitions map[scenario.ID]*scenario.Definition
	order       []scenario.ID
	sources     []string
}

// New creates a new empty Bank.
func New() *Bank {
	return &Bank{
		definitions: make(map[scenario.ID]*scenario.Definition),
	}
}

// LoadFile loads scenario definitions from a JSON or YAML file.
func (b *Bank) LoadFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("bank file %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bank file %s: %w", path, err)
	}

	file, err := Decode(data, format)
	if err != nil {
		return fmt.Errorf("parse bank file %s: %w", path, err)
	}
	if err := b.Add(file); err != nil {
		return fmt.Errorf("bank file %s: %w", path, err)
	}

	b.mu.Lock()
	b.sources = append(b.sources, path)
	b.mu.Unlock()
	return nil
}

// Add merges the definitions of an already decoded file.
func (b *Bank) Add(file File) error {
	for i, def := range file.Scenarios {
		if def.ID == "" {
			return fmt.Errorf("scenario at index %d has no ID", i)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range file.Scenarios {
		def := file.Scenarios[i].Clone()
		if _, exists := b.definitions[def.ID]; !exists {
			b.order = append(b.order, def.ID)
		}
		b.definitions[def.ID] = def
	}
	return nil
}

// LoadDir loads all .json, .yaml and .yml files from a directory.
func (b *Bank) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read bank directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := FormatFromPath(entry.Name()); err != nil {
			continue
		}
		if err := b.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Load loads path as a directory or a single file.
func (b *Bank) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bank %s: %w", path, err)
	}
	if info.IsDir() {
		return b.LoadDir(path)
	}
	return b.LoadFile(path)
}

// Get retrieves a scenario definition by ID.
func (b *Bank) Get(id scenario.ID) (*scenario.Definition, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.definitions[id]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

// All returns all loaded definitions in first-load order.
func (b *Bank) All() []*scenario.Definition {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]*scenario.Definition, 0, len(b.order))
	for _, id := range b.order {
		result = append(result, b.definitions[id].Clone())
	}
	return result
}

// ByType returns definitions filtered by scenario type.
func (b *Bank) ByType(t scenario.Type) []*scenario.Definition {
	var result []*scenario.Definition
	for _, def := range b.All() {
		if def.Type == t {
			result = append(result, def)
		}
	}
	return result
}

// Count returns the number of loaded definitions.
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.definitions)
}

// Sources returns the list of loaded file paths.
func (b *Bank) Sources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]string, len(b.sources))
	copy(result, b.sources)
	return result
}

// ApplyTo overrides the copy text of every matching scenario in
// reg. All definitions are attempted; the failures are joined.
func (b *Bank) ApplyTo(reg registry.Registry) error {
	var errs []error
	for _, def := range b.All() {
		if err := reg.Override(def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
