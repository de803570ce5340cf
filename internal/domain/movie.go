package domain

import "context"

// Movie is a locally cached copy of a catalog movie record. The ID is
// the external catalog id; the local store is a cache of catalog data,
// not authoritative.
type Movie struct {
	ID               int64
	Adult            bool
	BackdropPath     string
	PosterPath       string
	OriginalLanguage string
	Title            string
	Overview         string
	ReleaseDate      string
	VoteAverage      float64
	VoteCount        int64
	Popularity       float64
	GenreIDs         []int64
}

// MovieRepository defines persistence operations for cached movies and
// their genre associations.
type MovieRepository interface {
	// Upsert inserts the movie and its genre associations if absent.
	// An already-stored movie row is left unchanged.
	Upsert(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id int64) (*Movie, error)
	Delete(ctx context.Context, id int64) error
}
