// Package sqlite implements the domain repositories on a single-file
// SQLite database using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/movie-ranker/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the underlying sql.DB and hands out repositories bound to it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign keys, and serializes access
// through a single connection.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows one writer; a single long-lived connection keeps
	// the pragmas applied and serializes all access.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all unapplied schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying database.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Users returns a UserRepository bound to this database.
func (db *DB) Users() *UserRepository { return NewUserRepository(db) }

// Movies returns a MovieRepository bound to this database.
func (db *DB) Movies() *MovieRepository { return NewMovieRepository(db) }

// Ratings returns a RatingRepository bound to this database.
func (db *DB) Ratings() *RatingRepository { return NewRatingRepository(db) }
