package repository

import (
	"context"
	"errors"

	"github.com/blisscet/store-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index (username/email) rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrVersionConflict is returned when a conditional cart write lost the race.
	ErrVersionConflict = errors.New("version conflict")
)

// ProfileUpdate carries the optional profile fields of a partial update.
// Empty strings mean "leave unchanged"; a nil Avatar keeps the current one.
type ProfileUpdate struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Avatar    *entity.ImageRef
}

// UserRepository defines user-related document store operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	ApplyProfile(ctx context.Context, id string, upd ProfileUpdate) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	SetAdmin(ctx context.Context, id string, admin bool) (*entity.User, error)
	// ReplaceCart writes the cart only if the stored version still matches;
	// a mismatch yields ErrVersionConflict and the caller re-reads and retries.
	ReplaceCart(ctx context.Context, id string, cart []entity.CartItem, version int64) error
	Delete(ctx context.Context, id string) error
}
