package face

import (
	"context"

	id "presensi/pkg/domain"
)

// IdentityStore persists enrolled face templates. Implementations return
// sentinel.ErrNotFound when a user has no template on file.
type IdentityStore interface {
	Save(ctx context.Context, identity Identity) error
	FindByUser(ctx context.Context, userID id.UserID) (Identity, error)
	ListAll(ctx context.Context) ([]Identity, error)
	Delete(ctx context.Context, userID id.UserID) error
}
