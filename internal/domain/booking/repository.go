package booking

import (
	"context"
	"time"
)

// Repository defines the persistence contract for bookings.
type Repository interface {
	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, b *Booking) error

	// FindByID retrieves a booking by id, or a not-found error.
	FindByID(ctx context.Context, id uint64) (*Booking, error)

	// FindByBooker retrieves bookings created by the given user, optionally
	// restricted to one status, ordered by start descending.
	FindByBooker(ctx context.Context, bookerID uint64, filter StateFilter, page Page) ([]*Booking, error)

	// FindByOwner retrieves bookings for items owned by the given user,
	// optionally restricted to one status, ordered by start descending.
	FindByOwner(ctx context.Context, ownerID uint64, filter StateFilter, page Page) ([]*Booking, error)

	// UpdateStatusIfWaiting performs the WAITING -> target transition as a
	// single conditional update. If the booking is no longer WAITING (for
	// example a concurrent decide won the race) it returns
	// ErrStatusAlreadySet and changes nothing.
	UpdateStatusIfWaiting(ctx context.Context, id uint64, target Status) error

	// LastForItem returns the most recently concluded APPROVED booking for
	// the item (end before now, latest end wins, max id breaks ties), or nil
	// when there is none.
	LastForItem(ctx context.Context, itemID uint64, now time.Time) (*Booking, error)

	// NextForItem returns the soonest upcoming APPROVED booking for the item
	// (start after now, earliest start wins, min id breaks ties), or nil when
	// there is none.
	NextForItem(ctx context.Context, itemID uint64, now time.Time) (*Booking, error)

	// LastForItems is the batch form of LastForItem: exactly one candidate
	// per item id that has one, keyed by item id, all relative to the same
	// now instant.
	LastForItems(ctx context.Context, itemIDs []uint64, now time.Time) (map[uint64]*Booking, error)

	// NextForItems is the batch form of NextForItem.
	NextForItems(ctx context.Context, itemIDs []uint64, now time.Time) (map[uint64]*Booking, error)
}
