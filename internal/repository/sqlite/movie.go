package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/movie-ranker/internal/domain"
)

// MovieRepository implements domain.MovieRepository using SQLite.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new SQLite-backed MovieRepository.
func NewMovieRepository(db *DB) *MovieRepository {
	return &MovieRepository{db: db.SqlDB}
}

// Upsert inserts the movie row and its genre associations if absent.
// An existing movie row is left unchanged; the whole write is one
// transaction so a rating written afterwards can never reference a
// half-persisted movie.
func (r *MovieRepository) Upsert(ctx context.Context, movie *domain.Movie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO movies
		 (id, adult, backdrop_path, poster_path, original_language, title,
		  overview, release_date, vote_average, vote_count, popularity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.ID, movie.Adult, movie.BackdropPath, movie.PosterPath,
		movie.OriginalLanguage, movie.Title, movie.Overview, movie.ReleaseDate,
		movie.VoteAverage, movie.VoteCount, movie.Popularity,
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}

	for _, genreID := range movie.GenreIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO genre_map (movie_id, genre_id) VALUES (?, ?)`,
			movie.ID, genreID,
		)
		if err != nil {
			return fmt.Errorf("insert genre association: %w", err)
		}
	}

	return tx.Commit()
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	movie := &domain.Movie{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, adult, backdrop_path, poster_path, original_language, title,
		        overview, release_date, vote_average, vote_count, popularity
		 FROM movies WHERE id = ?`, id,
	).Scan(&movie.ID, &movie.Adult, &movie.BackdropPath, &movie.PosterPath,
		&movie.OriginalLanguage, &movie.Title, &movie.Overview, &movie.ReleaseDate,
		&movie.VoteAverage, &movie.VoteCount, &movie.Popularity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query movie by id: %w", err)
	}

	genreIDs, err := r.genreIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	movie.GenreIDs = genreIDs
	return movie, nil
}

// Delete removes a movie and, through cascading foreign keys, its genre
// associations and ratings. Deleting a missing movie is a no-op.
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) genreIDs(ctx context.Context, movieID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT genre_id FROM genre_map WHERE movie_id = ? ORDER BY genre_id`, movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query genre associations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan genre id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
