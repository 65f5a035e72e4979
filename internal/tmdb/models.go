// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tmdb

import "github.com/pdiddy/movie-tracker/pkg/types"

// TMDB API JSON structures. Only the fields the tracker uses are decoded.

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
	Overview    string  `json:"overview"`
}

func (m movieResult) toMovie() types.Movie {
	return types.Movie{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		GenreIDs:    m.GenreIDs,
		Overview:    m.Overview,
	}
}

type movieListResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

func (r movieListResponse) toPage() types.ResultPage {
	movies := make([]types.Movie, 0, len(r.Results))
	for _, m := range r.Results {
		movies = append(movies, m.toMovie())
	}
	return types.ResultPage{Movies: movies, Page: r.Page, TotalPages: r.TotalPages}
}

type personResult struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
}

type personListResponse struct {
	Page         int            `json:"page"`
	Results      []personResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type castCredit struct {
	movieResult
	Character string `json:"character"`
}

type crewCredit struct {
	movieResult
	Job        string `json:"job"`
	Department string `json:"department"`
}

type movieCreditsResponse struct {
	ID   int          `json:"id"`
	Cast []castCredit `json:"cast"`
	Crew []crewCredit `json:"crew"`
}

func (r movieCreditsResponse) toCredits() types.Credits {
	c := types.Credits{
		Cast: make([]types.Movie, 0, len(r.Cast)),
		Crew: make([]types.CrewCredit, 0, len(r.Crew)),
	}
	for _, m := range r.Cast {
		c.Cast = append(c.Cast, m.toMovie())
	}
	for _, m := range r.Crew {
		c.Crew = append(c.Crew, types.CrewCredit{Movie: m.toMovie(), Job: m.Job})
	}
	return c
}

type genreListResponse struct {
	Genres []types.Genre `json:"genres"`
}

// errorResponse is an error body from the TMDB API.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
