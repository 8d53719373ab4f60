package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loopmarket/service-rental/internal/domain/item"
	"github.com/loopmarket/service-rental/internal/domain/user"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// UpdateItemRequest holds a partial item update; nil/empty fields are ignored.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// ItemDTO is the response representation of an item. LastBooking and
// NextBooking are populated only when the requester owns the item.
type ItemDTO struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	OwnerID     uint64           `json:"ownerId"`
	LastBooking *BookingShortDTO `json:"lastBooking,omitempty"`
	NextBooking *BookingShortDTO `json:"nextBooking,omitempty"`
}

// ItemService manages item listings and assembles the item display view with
// the last/next booking projection.
type ItemService struct {
	items    item.Repository
	users    user.Lookup
	bookings BookingProjection
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(items item.Repository, users user.Lookup, bookings BookingProjection, logger *zap.Logger) *ItemService {
	return &ItemService{items: items, users: users, bookings: bookings, logger: logger}
}

// Create lists a new item for the given owner.
func (s *ItemService) Create(ctx context.Context, ownerID uint64, req CreateItemRequest) (*ItemDTO, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	itm, err := item.NewItem(owner.ID(), req.Name, req.Description, req.Available != nil && *req.Available)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, itm); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	dto := toItemDTO(itm)
	return &dto, nil
}

// Update applies a partial update to an item the caller owns.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID uint64, req UpdateItemRequest) (*ItemDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !itm.IsOwnedBy(ownerID) {
		return nil, apperrors.NewNotFoundMsg(fmt.Sprintf("item with id=%d does not belong to user with id=%d", itemID, ownerID))
	}

	itm.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, itm); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	dto := toItemDTO(itm)
	return &dto, nil
}

// Delete removes an item the caller owns.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID uint64) error {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !itm.IsOwnedBy(ownerID) {
		return apperrors.NewNotFoundMsg(fmt.Sprintf("item with id=%d does not belong to user with id=%d", itemID, ownerID))
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// GetByID returns the item detail view. The last/next booking projection is
// only visible to the item's owner.
func (s *ItemService) GetByID(ctx context.Context, requesterID, itemID uint64) (*ItemDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dto := toItemDTO(itm)
	if itm.IsOwnedBy(requesterID) {
		if dto.LastBooking, err = s.bookings.LastBookingFor(ctx, itemID); err != nil {
			return nil, err
		}
		if dto.NextBooking, err = s.bookings.NextBookingFor(ctx, itemID); err != nil {
			return nil, err
		}
	}
	return &dto, nil
}

// ListByOwner returns the caller's items with the last/next projection
// attached, resolved in one batch per direction.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID uint64, from, size int) ([]ItemDTO, error) {
	if from < 0 {
		return nil, apperrors.NewValidation("from must not be negative")
	}
	if size <= 0 {
		return nil, apperrors.NewValidation("size must be positive")
	}
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	list, err := s.items.FindByOwner(ctx, ownerID, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}

	itemIDs := make([]uint64, len(list))
	for i, itm := range list {
		itemIDs[i] = itm.ID()
	}
	last, err := s.bookings.LastBookingsFor(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextBookingsFor(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(list))
	for i, itm := range list {
		dtos[i] = toItemDTO(itm)
		dtos[i].LastBooking = last[itm.ID()]
		dtos[i].NextBooking = next[itm.ID()]
	}
	return dtos, nil
}

// Search returns available items matching the text. An empty query yields an
// empty result rather than everything.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	if from < 0 {
		return nil, apperrors.NewValidation("from must not be negative")
	}
	if size <= 0 {
		return nil, apperrors.NewValidation("size must be positive")
	}
	if text == "" {
		return []ItemDTO{}, nil
	}

	list, err := s.items.Search(ctx, text, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	dtos := make([]ItemDTO, len(list))
	for i, itm := range list {
		dtos[i] = toItemDTO(itm)
	}
	return dtos, nil
}

func toItemDTO(itm *item.Item) ItemDTO {
	return ItemDTO{
		ID:          itm.ID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
		OwnerID:     itm.OwnerID(),
	}
}
