package booking

import (
	"time"

	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// Booking is the aggregate root of the rental lifecycle: a request by a
// booker to rent an item for a time window, decided by the item's owner.
type Booking struct {
	id       uint64
	start    time.Time
	end      time.Time
	itemID   uint64
	bookerID uint64
	status   Status

	createdAt time.Time
	updatedAt time.Time
}

// New creates a booking request in status WAITING. The id is assigned by the
// store on save. Time-window sanity (start before end, start not in the past)
// is checked at the HTTP boundary, not here.
func New(itemID, bookerID uint64, start, end time.Time) (*Booking, error) {
	if itemID == 0 {
		return nil, apperrors.NewValidation("item id is required")
	}
	if bookerID == 0 {
		return nil, apperrors.NewValidation("booker id is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.NewValidation("start and end are required")
	}

	now := time.Now().UTC()
	return &Booking{
		start:     start,
		end:       end,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id uint64, itemID, bookerID uint64, start, end time.Time, status Status, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		id:        id,
		start:     start,
		end:       end,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) ID() uint64           { return b.id }
func (b *Booking) Start() time.Time     { return b.start }
func (b *Booking) End() time.Time       { return b.end }
func (b *Booking) ItemID() uint64       { return b.itemID }
func (b *Booking) BookerID() uint64     { return b.bookerID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// SetID is called by the repository once the store has assigned an id.
func (b *Booking) SetID(id uint64) { b.id = id }

// IsBookedBy reports whether the given user created this booking.
func (b *Booking) IsBookedBy(userID uint64) bool {
	return b.bookerID == userID
}

// Decide applies the owner's decision: WAITING moves to APPROVED or REJECTED.
// Re-deciding an already-decided booking fails; the transition is single-shot,
// not idempotent.
func (b *Booking) Decide(approved bool) error {
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return ErrStatusAlreadySet
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// ErrStatusAlreadySet is returned when a decide call hits a booking that is
// no longer WAITING, whether detected in memory or by the store's conditional
// update.
var ErrStatusAlreadySet = apperrors.NewValidation("booking status is already set")
