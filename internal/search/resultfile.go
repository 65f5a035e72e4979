// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// ResultFile is the on-disk form of a finished search: the intent that
// produced it and the results it settled on. Saved results can be reviewed
// or added to the library later without querying the provider again.
type ResultFile struct {
	Intent  types.SearchIntent `yaml:"intent"`
	Person  *types.Person      `yaml:"person,omitempty"`
	Movies  []types.Movie      `yaml:"movies"`
	People  []types.Person     `yaml:"people,omitempty"`
	Summary ResultSummary      `yaml:"summary"`
}

// ResultSummary records result counts and when the search ran.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Pages     int       `yaml:"pages"`
	HasMore   bool      `yaml:"has_more"`
	Error     string    `yaml:"error,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a snapshot to a YAML file.
func WriteResultFile(path string, s Snapshot) error {
	rf := ResultFile{
		Intent: types.SearchIntent{Query: s.Query, Kind: s.Kind, Criteria: s.Criteria},
		Person: s.SelectedPerson,
		Movies: s.Movies,
		People: s.People,
		Summary: ResultSummary{
			Total:     len(s.Movies),
			Pages:     s.Page,
			HasMore:   s.HasMore,
			Error:     s.Error,
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Movie returns the saved movie with id.
func (rf *ResultFile) Movie(id int) (types.Movie, bool) {
	for _, m := range rf.Movies {
		if m.ID == id {
			return m, true
		}
	}
	return types.Movie{}, false
}
