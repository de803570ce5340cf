package domain

import (
	"context"
	"fmt"
)

// UserMovie is a movie joined with the rating one user gave it.
type UserMovie struct {
	Movie
	Rating int
}

// SortField enumerates the columns a user-movie listing may be ordered
// by. Only these values ever reach query construction.
type SortField string

const (
	SortByRating      SortField = "rating"
	SortByPopularity  SortField = "popularity"
	SortByTitle       SortField = "title"
	SortByVoteAverage SortField = "vote_average"
	SortByVoteCount   SortField = "vote_count"
	SortByReleaseDate SortField = "release_date"
)

// ParseSortField validates a caller-supplied sort key against the
// allow-list. Anything outside the enumeration is an input error.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortByRating, SortByPopularity, SortByTitle, SortByVoteAverage, SortByVoteCount, SortByReleaseDate:
		return SortField(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, s)
}

// RatingRepository defines persistence operations for per-user movie
// ratings.
type RatingRepository interface {
	// Rate inserts or replaces the rating for (userID, movieID).
	Rate(ctx context.Context, userID, movieID int64, rating int) error
	// Get returns the rating one user gave one movie, or ErrNotFound.
	Get(ctx context.Context, userID, movieID int64) (int, error)
	// ListByUserName joins users, ratings, and movies for the named
	// user, ordered by the given field and direction.
	ListByUserName(ctx context.Context, name string, sortBy SortField, ascending bool) ([]UserMovie, error)
	Delete(ctx context.Context, userID, movieID int64) error
}
