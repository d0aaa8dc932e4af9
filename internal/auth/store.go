package auth

import (
	"context"

	id "presensi/pkg/domain"
)

// UserStore persists accounts. Lookups return sentinel.ErrNotFound when no
// account matches; Create returns sentinel.ErrConflict on a duplicate email.
type UserStore interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, userID id.UserID) (User, error)
}
