// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes entries to w as YAML or JSON.
func Export(entries []types.LibraryEntry, format string, w io.Writer) error {
	if entries == nil {
		entries = []types.LibraryEntry{}
	}
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", format)
	}
}

// ExportFile writes entries to path, choosing the format from the file
// extension (.json, else YAML).
func ExportFile(entries []types.LibraryEntry, path string) error {
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := Export(entries, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadExport loads entries previously written by ExportFile.
func ReadExport(path string) ([]types.LibraryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	var entries []types.LibraryEntry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &entries)
	} else {
		err = yaml.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing export file: %w", err)
	}
	return entries, nil
}
