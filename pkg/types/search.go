// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// SearchKind selects what a free-text query is matched against.
type SearchKind string

const (
	KindMovie    SearchKind = "movie"
	KindActor    SearchKind = "actor"
	KindDirector SearchKind = "director"
)

// ParseSearchKind converts user input to a SearchKind. Empty input is a
// movie search.
func ParseSearchKind(s string) (SearchKind, error) {
	switch SearchKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindMovie:
		return KindMovie, nil
	case KindActor:
		return KindActor, nil
	case KindDirector:
		return KindDirector, nil
	default:
		return "", fmt.Errorf("unknown search kind %q: use movie, actor, or director", s)
	}
}

// IsPerson reports whether the kind searches people rather than titles.
func (k SearchKind) IsPerson() bool {
	return k == KindActor || k == KindDirector
}

// Department returns the provider department a person must be known for to
// match this kind, or "" for movie searches.
func (k SearchKind) Department() string {
	switch k {
	case KindActor:
		return DepartmentActing
	case KindDirector:
		return DepartmentDirecting
	default:
		return ""
	}
}

// FilterMode says whether a matching predicate keeps or drops an entity.
type FilterMode string

const (
	ModeInclude FilterMode = "include"
	ModeExclude FilterMode = "exclude"
)

// ParseFilterMode converts user input to a FilterMode. Empty input is include.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeInclude:
		return ModeInclude, nil
	case ModeExclude:
		return ModeExclude, nil
	default:
		return "", fmt.Errorf("unknown filter mode %q: use include or exclude", s)
	}
}

// FilterCriteria holds the compound genre and year predicates applied to
// movie results.
type FilterCriteria struct {
	// Genre is the provider genre id to test; 0 means no genre filter.
	Genre int `json:"genre,omitempty" yaml:"genre,omitempty"`

	GenreMode FilterMode `json:"genre_mode,omitempty" yaml:"genre_mode,omitempty"`

	// Year is a four-digit release year; empty means no year filter.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	YearMode FilterMode `json:"year_mode,omitempty" yaml:"year_mode,omitempty"`
}

// HasGenre reports whether a genre filter is set.
func (c FilterCriteria) HasGenre() bool { return c.Genre != 0 }

// HasYear reports whether a year filter is set.
func (c FilterCriteria) HasYear() bool { return c.Year != "" }

// IsEmpty reports whether no predicate is set.
func (c FilterCriteria) IsEmpty() bool { return !c.HasGenre() && !c.HasYear() }

// Validate checks the year format and filter modes.
func (c FilterCriteria) Validate() error {
	if c.Genre < 0 {
		return fmt.Errorf("genre id must be positive, got %d", c.Genre)
	}
	if c.HasYear() {
		if len(c.Year) != 4 {
			return fmt.Errorf("year must be four digits, got %q", c.Year)
		}
		for _, r := range c.Year {
			if r < '0' || r > '9' {
				return fmt.Errorf("year must be four digits, got %q", c.Year)
			}
		}
	}
	if _, err := ParseFilterMode(string(c.GenreMode)); err != nil {
		return err
	}
	if _, err := ParseFilterMode(string(c.YearMode)); err != nil {
		return err
	}
	return nil
}

// SearchIntent is one submitted search: the query text, what it searches,
// and the filters in force. It is not modified while the search runs.
type SearchIntent struct {
	Query    string         `json:"query,omitempty" yaml:"query,omitempty"`
	Kind     SearchKind     `json:"kind" yaml:"kind"`
	Criteria FilterCriteria `json:"criteria,omitempty" yaml:"criteria,omitempty"`
}
