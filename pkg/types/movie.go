// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the movie tracker: provider
// entities, search intents and filter criteria, library entries, and
// configuration.
package types

// Department values reported by the provider for a person's primary role.
const (
	DepartmentActing    = "Acting"
	DepartmentDirecting = "Directing"
)

// JobDirector is the crew job title that marks a directing credit.
const JobDirector = "Director"

// Movie is a movie entity as produced by the provider. The core never mutates
// provider fields; library-local fields live on LibraryEntry.
type Movie struct {
	// ID is the provider-assigned unique identifier.
	ID int `json:"id" yaml:"id"`

	// Title is the display title.
	Title string `json:"title" yaml:"title"`

	// ReleaseDate is "YYYY-MM-DD" or empty when the provider has no date.
	ReleaseDate string `json:"release_date,omitempty" yaml:"release_date,omitempty"`

	// PosterPath is the provider image path (e.g. "/abc.jpg"), empty if none.
	PosterPath string `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`

	// VoteAverage is the provider's community rating on a 0-10 scale.
	// Zero means the provider has no rating.
	VoteAverage float64 `json:"vote_average,omitempty" yaml:"vote_average,omitempty"`

	// GenreIDs lists the provider genre identifiers for the movie.
	GenreIDs []int `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty"`

	// Overview is the plot summary.
	Overview string `json:"overview,omitempty" yaml:"overview,omitempty"`
}

// Year returns the four-character year prefix of ReleaseDate, or "" when the
// movie is undated.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return m.ReleaseDate
	}
	return m.ReleaseDate[:4]
}

// HasGenre reports whether the movie is tagged with genre id.
func (m Movie) HasGenre(id int) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// Person is a cast or crew member returned by a person search.
type Person struct {
	ID                 int     `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	KnownForDepartment string  `json:"known_for_department" yaml:"known_for_department"`
	ProfilePath        string  `json:"profile_path,omitempty" yaml:"profile_path,omitempty"`
	Popularity         float64 `json:"popularity,omitempty" yaml:"popularity,omitempty"`
}

// CrewCredit is a movie a person worked on behind the camera, tagged with
// the job they held (e.g. "Director", "Writer").
type CrewCredit struct {
	Movie `yaml:",inline"`
	Job   string `json:"job" yaml:"job"`
}

// Credits holds a person's movie associations split by role.
type Credits struct {
	Cast []Movie      `json:"cast" yaml:"cast"`
	Crew []CrewCredit `json:"crew" yaml:"crew"`
}

// Directed returns the crew credits whose job is Director, as movies.
func (c Credits) Directed() []Movie {
	var movies []Movie
	for _, cr := range c.Crew {
		if cr.Job == JobDirector {
			movies = append(movies, cr.Movie)
		}
	}
	return movies
}

// ResultPage is one page of movie results from a title search or discovery.
type ResultPage struct {
	Movies []Movie `json:"movies" yaml:"movies"`

	// Page is the 1-based page number the provider returned.
	Page int `json:"page" yaml:"page"`

	// TotalPages is the provider's page count, or 0 when unknown.
	TotalPages int `json:"total_pages,omitempty" yaml:"total_pages,omitempty"`
}

// Genre is a provider genre identifier with its display name.
type Genre struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
