package attendance

import (
	"context"

	id "presensi/pkg/domain"
)

// RecordStore persists attendance records under the (UserID, Date)
// uniqueness invariant. Create returns sentinel.ErrConflict when a record
// already exists for the pair, which the service translates into the
// "already checked in" rejection; lookups return sentinel.ErrNotFound.
type RecordStore interface {
	Create(ctx context.Context, record Record) error
	Update(ctx context.Context, record Record) error
	FindByUserAndDate(ctx context.Context, userID id.UserID, date string) (Record, error)
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]Record, error)
}
