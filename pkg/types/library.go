// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LibraryEntry is a movie accepted into the personal collection together with
// the fields the user owns: rating, review, and saved state.
type LibraryEntry struct {
	Movie `yaml:",inline"`

	// UserRating is the user's 1-10 rating; 0 means not rated yet.
	UserRating int `json:"user_rating" yaml:"user_rating"`

	// UserReview is free text; empty means no review.
	UserReview string `json:"user_review" yaml:"user_review"`

	// IsSaved marks the entry as finalized. Rating and review are read-only
	// while saved.
	IsSaved bool `json:"is_saved" yaml:"is_saved"`

	// CombinedRating blends the provider and user ratings; set on save.
	CombinedRating float64 `json:"combined_rating,omitempty" yaml:"combined_rating,omitempty"`

	// AddedAt is when the movie entered the collection.
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}
