package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// CurrentVersion is the bank file version written by Export.
const CurrentVersion = "1.0"

// File represents the structure of a scenario bank file.
type File struct {
	Version   string                `json:"version" yaml:"version"`
	Name      string                `json:"name" yaml:"name"`
	Scenarios []scenario.Definition `json:"scenarios" yaml:"scenarios"`
	Metadata  map[string]any        `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Format is a bank file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat reads a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown bank format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseFormat(ext)
}

// Decode parses bank data in the given format.
func Decode(data []byte, format Format) (File, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("unknown bank format %q", format)
	}
	return f, nil
}

// Export builds a bank file from definitions.
func Export(name string, defs []*scenario.Definition) File {
	f := File{
		Version:   CurrentVersion,
		Name:      name,
		Scenarios: make([]scenario.Definition, 0, len(defs)),
	}
	for _, d := range defs {
		f.Scenarios = append(f.Scenarios, *d.Clone())
	}
	return f
}

// Write encodes f to w.
func Write(w io.Writer, f File, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown bank format %q", format)
}
