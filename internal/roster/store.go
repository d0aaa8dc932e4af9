package roster

import (
	"context"

	id "presensi/pkg/domain"
)

// Stores are interface-driven so the engine and admin surface can run
// against in-memory or PostgreSQL persistence without rewiring.
// Lookups return sentinel.ErrNotFound when nothing matches.
type ShiftStore interface {
	Create(ctx context.Context, shift Shift) error
	FindByID(ctx context.Context, shiftID id.ShiftID) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
}

type AssignmentStore interface {
	Upsert(ctx context.Context, assignment ShiftAssignment) error
	FindByUserAndDate(ctx context.Context, userID id.UserID, date string) (ShiftAssignment, error)
}

type LocationStore interface {
	Create(ctx context.Context, location OfficeLocation) error
	Update(ctx context.Context, location OfficeLocation) error
	FindByID(ctx context.Context, locationID id.LocationID) (OfficeLocation, error)
	List(ctx context.Context) ([]OfficeLocation, error)
	ListActive(ctx context.Context) ([]OfficeLocation, error)
}
