package store

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	f, err := NewFile(filepath.Join(dir, "files"))
	require.NoError(t, err)
	s, err := NewSQLite(filepath.Join(dir, "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   f,
		"sqlite": s,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "progress:The Age Gate")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, "progress:The Age Gate", []byte(`["zero"]`)))
			v, err := s.Load(ctx, "progress:The Age Gate")
			require.NoError(t, err)
			assert.Equal(t, `["zero"]`, string(v))

			require.NoError(t, s.Save(ctx, "progress:The Age Gate", []byte(`["zero","negative"]`)))
			v, err = s.Load(ctx, "progress:The Age Gate")
			require.NoError(t, err)
			assert.Equal(t, `["zero","negative"]`, string(v))

			require.NoError(t, s.Delete(ctx, "progress:The Age Gate"))
			_, err = s.Load(ctx, "progress:The Age Gate")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "never-saved"))
		})
	}
}

func TestStore_KeysIsolated(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "a", []byte("1")))
			require.NoError(t, s.Save(ctx, "b", []byte("2")))
			v, err := s.Load(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "1", string(v))
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", buf))
	buf[0] = 'z'

	v, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
	assert.Equal(t, 1, m.Len())
}

func TestFile_PathSanitized(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	key := "progress:The Age Gate/../x"
	p := f.Path(key)
	assert.Equal(t, f.Dir(), filepath.Dir(p))

	name := strings.TrimSuffix(filepath.Base(p), ".json")
	raw, err := hex.DecodeString(name)
	require.NoError(t, err)
	assert.Equal(t, key, string(raw))
}

func TestFile_SimilarKeysDoNotCollide(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, f.Save(ctx, "progress:Die Alterskontrolle", []byte(`["sqli"]`)))

	for _, key := range []string{
		"progress:Die_Alterskontrolle",
		"progress:die alterskontrolle",
		"progress-Die Alterskontrolle",
	} {
		_, err := f.Load(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound, key)
		assert.NotEqual(t, f.Path("progress:Die Alterskontrolle"), f.Path(key), key)
	}

	v, err := f.Load(ctx, "progress:Die Alterskontrolle")
	require.NoError(t, err)
	assert.Equal(t, `["sqli"]`, string(v))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f1, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f1.Save(ctx, "k", []byte("v")))

	f2, err := NewFile(dir)
	require.NoError(t, err)
	v, err := f2.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))

	_, err = os.Stat(f1.Path("k") + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSQLite_ReopenAndKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lab.db")

	s1, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(ctx, "b", []byte("2")))
	require.NoError(t, s1.Save(ctx, "a", []byte("1")))
	require.NoError(t, s1.Close())

	s2, err := NewSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	keys, err := s2.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver  string
		path    string
		wantErr bool
	}{
		{"", "", false},
		{DriverMemory, "", false},
		{DriverFile, filepath.Join(dir, "f"), false},
		{DriverSQLite, filepath.Join(dir, "s.db"), false},
		{DriverFile, "", true},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := Open(tt.driver, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
