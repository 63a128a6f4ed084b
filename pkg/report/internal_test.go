package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToHistory_MarshalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	original := jsonMarshal
	t.Cleanup(func() { jsonMarshal = original })
	jsonMarshal = func(v any) ([]byte, error) {
		return nil, assert.AnError
	}

	err := AppendToHistory(path, HistoricalEntry{EdgeCaseID: "one"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "marshal history entry")
}

func TestJSONReporter_MarshalError(t *testing.T) {
	original := jsonMarshalIndent
	t.Cleanup(func() { jsonMarshalIndent = original })
	jsonMarshalIndent = func(v any, prefix, indent string) ([]byte, error) {
		return nil, assert.AnError
	}

	_, err := NewJSONReporter(true).GenerateReport(sampleChecklist())
	assert.ErrorIs(t, err, assert.AnError)

	err = NewJSONReporter(true).WriteReport(os.Stdout, sampleChecklist())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSaveMasterSummary_MarshalError(t *testing.T) {
	original := jsonMarshalIndent
	t.Cleanup(func() { jsonMarshalIndent = original })
	jsonMarshalIndent = func(v any, prefix, indent string) ([]byte, error) {
		return nil, assert.AnError
	}

	err := SaveMasterSummary(BuildMasterSummary(nil), t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "marshal summary")
}

func TestSaveMasterSummary_WriteJSONError(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	jsonPath := filepath.Join(dir, "master_summary_20260304_050607.json")
	require.NoError(t, os.MkdirAll(jsonPath, 0755))

	err := SaveMasterSummary(&MasterSummary{ID: "test", GeneratedAt: at}, dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write JSON summary")
}

func TestSaveMasterSummary_WriteMarkdownError(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	mdPath := filepath.Join(dir, "master_summary_20260304_050607.md")
	require.NoError(t, os.MkdirAll(mdPath, 0755))

	err := SaveMasterSummary(&MasterSummary{ID: "test", GeneratedAt: at}, dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write Markdown summary")
}

func TestSaveMasterSummary_MkdirError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := SaveMasterSummary(BuildMasterSummary(nil), filepath.Join(blocker, "out"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "create output directory")
}
