package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/movie-ranker/internal/domain"
)

// RatingRepository implements domain.RatingRepository using SQLite.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new SQLite-backed RatingRepository.
func NewRatingRepository(db *DB) *RatingRepository {
	return &RatingRepository{db: db.SqlDB}
}

// Rate inserts or replaces the rating for (userID, movieID). Re-rating
// overwrites; the listing never holds more than one row per pair.
func (r *RatingRepository) Rate(ctx context.Context, userID, movieID int64, rating int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_movies (user_id, movie_id, rating) VALUES (?, ?, ?)`,
		userID, movieID, rating,
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) Get(ctx context.Context, userID, movieID int64) (int, error) {
	var rating int
	err := r.db.QueryRowContext(ctx,
		`SELECT rating FROM user_movies WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	).Scan(&rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("query rating: %w", err)
	}
	return rating, nil
}

// ListByUserName returns the named user's rated movies. The ORDER BY
// column is chosen by a switch over the sort enumeration; caller input
// never reaches the query text.
func (r *RatingRepository) ListByUserName(ctx context.Context, name string, sortBy domain.SortField, ascending bool) ([]domain.UserMovie, error) {
	var column string
	switch sortBy {
	case domain.SortByRating:
		column = "um.rating"
	case domain.SortByPopularity:
		column = "m.popularity"
	case domain.SortByTitle:
		column = "m.title"
	case domain.SortByVoteAverage:
		column = "m.vote_average"
	case domain.SortByVoteCount:
		column = "m.vote_count"
	case domain.SortByReleaseDate:
		column = "m.release_date"
	default:
		return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidInput, sortBy)
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query := `SELECT m.id, m.adult, m.backdrop_path, m.poster_path, m.original_language,
	                 m.title, m.overview, m.release_date, m.vote_average, m.vote_count,
	                 m.popularity, um.rating
	          FROM users u
	          JOIN user_movies um ON u.id = um.user_id
	          JOIN movies m ON um.movie_id = m.id
	          WHERE u.name = ?
	          ORDER BY ` + column + " " + direction

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("query user movies: %w", err)
	}
	defer rows.Close()

	var list []domain.UserMovie
	for rows.Next() {
		var um domain.UserMovie
		err := rows.Scan(&um.ID, &um.Adult, &um.BackdropPath, &um.PosterPath,
			&um.OriginalLanguage, &um.Title, &um.Overview, &um.ReleaseDate,
			&um.VoteAverage, &um.VoteCount, &um.Popularity, &um.Rating)
		if err != nil {
			return nil, fmt.Errorf("scan user movie: %w", err)
		}
		list = append(list, um)
	}
	return list, rows.Err()
}

// Delete removes one user's rating of one movie. Deleting a missing
// rating is a no-op.
func (r *RatingRepository) Delete(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_movies WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}
