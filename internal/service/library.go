package service

import (
	"context"
	"fmt"

	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/domain"
)

// LibraryService owns each user's personally rated movie list and the
// locally cached movie metadata behind it.
type LibraryService struct {
	movies  domain.MovieRepository
	ratings domain.RatingRepository
	users   domain.UserRepository
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(movies domain.MovieRepository, ratings domain.RatingRepository, users domain.UserRepository) *LibraryService {
	return &LibraryService{movies: movies, ratings: ratings, users: users}
}

// Rate persists the movie metadata and then the user's rating. The
// movie is always upserted before the rating row so a rating never
// references an absent movie.
func (s *LibraryService) Rate(ctx context.Context, userID int64, movie *domain.Movie, rating int) error {
	if rating < 1 || rating > 10 {
		return fmt.Errorf("%w: rating must be between 1 and 10", domain.ErrInvalidInput)
	}

	if err := s.movies.Upsert(ctx, movie); err != nil {
		return fmt.Errorf("upsert movie: %w", err)
	}
	if err := s.ratings.Rate(ctx, userID, movie.ID, rating); err != nil {
		return fmt.Errorf("rate movie: %w", err)
	}
	return nil
}

// UserMovies returns the named user's rated movies in the requested order.
func (s *LibraryService) UserMovies(ctx context.Context, name string, sortBy domain.SortField, ascending bool) ([]domain.UserMovie, error) {
	return s.ratings.ListByUserName(ctx, name, sortBy, ascending)
}

// Movie looks up a locally persisted movie. The local store is
// authoritative for any movie it holds; callers fall back to the
// session search cache only on ErrNotFound.
func (s *LibraryService) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// UserRating returns the rating the user gave the movie, or ErrNotFound.
func (s *LibraryService) UserRating(ctx context.Context, userID, movieID int64) (int, error) {
	return s.ratings.Get(ctx, userID, movieID)
}

// DeleteRating removes one user's rating of one movie.
func (s *LibraryService) DeleteRating(ctx context.Context, userID, movieID int64) error {
	return s.ratings.Delete(ctx, userID, movieID)
}

// DeleteMovie removes a cached movie with its associations.
func (s *LibraryService) DeleteMovie(ctx context.Context, id int64) error {
	return s.movies.Delete(ctx, id)
}

// DeleteUserByName removes a user and, by cascade, their ratings.
func (s *LibraryService) DeleteUserByName(ctx context.Context, name string) error {
	return s.users.DeleteByName(ctx, name)
}

// MovieFromCatalog converts a catalog record into the locally stored
// representation.
func MovieFromCatalog(m catalog.Movie) *domain.Movie {
	return &domain.Movie{
		ID:               m.ID,
		Adult:            m.Adult,
		BackdropPath:     m.BackdropPath,
		PosterPath:       m.PosterPath,
		OriginalLanguage: m.OriginalLanguage,
		Title:            m.Title,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		GenreIDs:         m.GenreIDs,
	}
}
