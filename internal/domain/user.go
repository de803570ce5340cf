package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application. Login is by
// display name only: the same name always resolves to the same row.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByName(ctx context.Context, name string) error
}
