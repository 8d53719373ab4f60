package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/loopmarket/service-rental/internal/domain/booking"
	"github.com/loopmarket/service-rental/internal/domain/item"
	"github.com/loopmarket/service-rental/internal/domain/user"
	"github.com/loopmarket/service-rental/internal/events"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// EventPublisher publishes booking lifecycle events. Publishing is
// fire-and-forget from the service's point of view.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

// Publish implements EventPublisher by doing nothing.
func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID uint64    `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// UserShortDTO identifies a user in booking responses.
type UserShortDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ItemShortDTO identifies an item in booking responses.
type ItemShortDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the response representation of a booking, with item and
// booker resolved for presentation.
type BookingDTO struct {
	ID     uint64       `json:"id"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status string       `json:"status"`
	Item   ItemShortDTO `json:"item"`
	Booker UserShortDTO `json:"booker"`
}

// BookingShortDTO is the compact form embedded in item views for the
// last/next booking projection.
type BookingShortDTO struct {
	ID       uint64    `json:"id"`
	BookerID uint64    `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookingProjection exposes the last/next APPROVED booking per item, consumed
// by the item display feature.
type BookingProjection interface {
	LastBookingFor(ctx context.Context, itemID uint64) (*BookingShortDTO, error)
	NextBookingFor(ctx context.Context, itemID uint64) (*BookingShortDTO, error)
	LastBookingsFor(ctx context.Context, itemIDs []uint64) (map[uint64]*BookingShortDTO, error)
	NextBookingsFor(ctx context.Context, itemIDs []uint64) (map[uint64]*BookingShortDTO, error)
}

// BookingService orchestrates the booking lifecycle: creation validation,
// owner decisions, access-guarded reads and the temporal queries.
type BookingService struct {
	bookings  booking.Repository
	items     item.Lookup
	users     user.Lookup
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings booking.Repository,
	items item.Lookup,
	users user.Lookup,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates and persists a new booking request in status WAITING.
func (s *BookingService) Create(ctx context.Context, bookerID uint64, req CreateBookingRequest) (*BookingDTO, error) {
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	itm, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if err := validateCreation(itm, bookerID); err != nil {
		return nil, err
	}

	b, err := booking.New(itm.ID(), booker.ID(), req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishLifecycle(ctx, events.BookingCreated, b, itm)

	dto := toBookingDTO(b, itm, booker)
	return &dto, nil
}

// Decide applies the owner's approve/reject decision to a WAITING booking.
// The status transition is persisted as a single conditional update, so two
// concurrent decisions cannot both win.
func (s *BookingService) Decide(ctx context.Context, requesterID, bookingID uint64, approved bool) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	itm, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}

	if !itm.IsOwnedBy(requesterID) {
		return nil, apperrors.NewForbidden("only the item owner can decide a booking")
	}

	if err := b.Decide(approved); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatusIfWaiting(ctx, b.ID(), b.Status()); err != nil {
		return nil, err
	}

	booker, err := s.users.FindByID(ctx, b.BookerID())
	if err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	s.publishLifecycle(ctx, eventType, b, itm)

	dto := toBookingDTO(b, itm, booker)
	return &dto, nil
}

// GetByID retrieves a booking, visible only to its booker or the item owner.
func (s *BookingService) GetByID(ctx context.Context, requesterID, bookingID uint64) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	itm, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}

	if !b.IsBookedBy(requesterID) && !itm.IsOwnedBy(requesterID) {
		return nil, apperrors.NewForbidden("booking is only visible to the booker or the item owner")
	}

	booker, err := s.users.FindByID(ctx, b.BookerID())
	if err != nil {
		return nil, err
	}

	dto := toBookingDTO(b, itm, booker)
	return &dto, nil
}

// ListByBooker returns the caller's own bookings, newest start first.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID uint64, filter booking.StateFilter, page booking.Page) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}
	list, err := s.bookings.FindByBooker(ctx, bookerID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	return s.composeList(ctx, list)
}

// ListByOwner returns bookings for items the caller owns, newest start first.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID uint64, filter booking.StateFilter, page booking.Page) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	list, err := s.bookings.FindByOwner(ctx, ownerID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	return s.composeList(ctx, list)
}

// LastBookingFor returns the most recently concluded APPROVED booking for the
// item, or nil when there is none.
func (s *BookingService) LastBookingFor(ctx context.Context, itemID uint64) (*BookingShortDTO, error) {
	b, err := s.bookings.LastForItem(ctx, itemID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query last booking: %w", err)
	}
	return toShortDTO(b), nil
}

// NextBookingFor returns the soonest upcoming APPROVED booking for the item,
// or nil when there is none.
func (s *BookingService) NextBookingFor(ctx context.Context, itemID uint64) (*BookingShortDTO, error) {
	b, err := s.bookings.NextForItem(ctx, itemID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query next booking: %w", err)
	}
	return toShortDTO(b), nil
}

// LastBookingsFor is the batch form of LastBookingFor, computed against a
// single shared now instant.
func (s *BookingService) LastBookingsFor(ctx context.Context, itemIDs []uint64) (map[uint64]*BookingShortDTO, error) {
	found, err := s.bookings.LastForItems(ctx, itemIDs, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query last bookings: %w", err)
	}
	return toShortDTOMap(found), nil
}

// NextBookingsFor is the batch form of NextBookingFor.
func (s *BookingService) NextBookingsFor(ctx context.Context, itemIDs []uint64) (map[uint64]*BookingShortDTO, error) {
	found, err := s.bookings.NextForItems(ctx, itemIDs, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query next bookings: %w", err)
	}
	return toShortDTOMap(found), nil
}

// --- Helpers ---

// validateCreation enforces the creation preconditions: the item must be
// available and the booker must not be its owner.
func validateCreation(itm *item.Item, bookerID uint64) error {
	if !itm.Available() {
		return apperrors.NewValidation(fmt.Sprintf("item with id=%d is not available for booking", itm.ID()))
	}
	if itm.IsOwnedBy(bookerID) {
		return apperrors.NewValidation("owner cannot book their own item")
	}
	return nil
}

// composeList resolves the items and bookers referenced by a page of bookings
// with two batch lookups and builds the response DTOs.
func (s *BookingService) composeList(ctx context.Context, list []*booking.Booking) ([]BookingDTO, error) {
	itemIDs := make([]uint64, 0, len(list))
	userIDs := make([]uint64, 0, len(list))
	seenItems := make(map[uint64]bool)
	seenUsers := make(map[uint64]bool)
	for _, b := range list {
		if !seenItems[b.ItemID()] {
			seenItems[b.ItemID()] = true
			itemIDs = append(itemIDs, b.ItemID())
		}
		if !seenUsers[b.BookerID()] {
			seenUsers[b.BookerID()] = true
			userIDs = append(userIDs, b.BookerID())
		}
	}

	itemsByID, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve items: %w", err)
	}
	usersByID, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bookers: %w", err)
	}

	dtos := make([]BookingDTO, len(list))
	for i, b := range list {
		dtos[i] = toBookingDTO(b, itemsByID[b.ItemID()], usersByID[b.BookerID()])
	}
	return dtos, nil
}

func (s *BookingService) publishLifecycle(ctx context.Context, eventType string, b *booking.Booking, itm *item.Item) {
	evt := events.BookingEvent{
		BookingID:  b.ID(),
		ItemID:     b.ItemID(),
		BookerID:   b.BookerID(),
		OwnerID:    itm.OwnerID(),
		Start:      b.Start(),
		End:        b.End(),
		Status:     b.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	key := strconv.FormatUint(b.ID(), 10)
	if err := s.publisher.Publish(ctx, eventType, key, evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("type", eventType),
			zap.Uint64("booking_id", b.ID()),
			zap.Error(err),
		)
	}
}

func toBookingDTO(b *booking.Booking, itm *item.Item, booker *user.User) BookingDTO {
	dto := BookingDTO{
		ID:     b.ID(),
		Start:  b.Start(),
		End:    b.End(),
		Status: b.Status().String(),
	}
	if itm != nil {
		dto.Item = ItemShortDTO{ID: itm.ID(), Name: itm.Name()}
	}
	if booker != nil {
		dto.Booker = UserShortDTO{ID: booker.ID(), Name: booker.Name()}
	}
	return dto
}

func toShortDTO(b *booking.Booking) *BookingShortDTO {
	if b == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       b.ID(),
		BookerID: b.BookerID(),
		Start:    b.Start(),
		End:      b.End(),
	}
}

func toShortDTOMap(found map[uint64]*booking.Booking) map[uint64]*BookingShortDTO {
	out := make(map[uint64]*BookingShortDTO, len(found))
	for itemID, b := range found {
		out[itemID] = toShortDTO(b)
	}
	return out
}
