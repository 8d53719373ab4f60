package item

import (
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// Item is a rentable thing listed by its owner. The available flag gates
// whether new bookings may be created for it.
type Item struct {
	id          uint64
	name        string
	description string
	available   bool
	ownerID     uint64
}

// NewItem creates a new item listing with validated fields. The id is
// assigned by the store on save.
func NewItem(ownerID uint64, name, description string, available bool) (*Item, error) {
	if ownerID == 0 {
		return nil, apperrors.NewValidation("owner id is required")
	}
	if name == "" {
		return nil, apperrors.NewValidation("item name is required")
	}
	if description == "" {
		return nil, apperrors.NewValidation("item description is required")
	}
	return &Item{
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id uint64, name, description string, available bool, ownerID uint64) *Item {
	return &Item{
		id:          id,
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
	}
}

func (i *Item) ID() uint64          { return i.id }
func (i *Item) Name() string        { return i.name }
func (i *Item) Description() string { return i.description }
func (i *Item) Available() bool     { return i.available }
func (i *Item) OwnerID() uint64     { return i.ownerID }

// SetID is called by the repository once the store has assigned an id.
func (i *Item) SetID(id uint64) { i.id = id }

// IsOwnedBy reports whether the item belongs to the given user.
func (i *Item) IsOwnedBy(userID uint64) bool {
	return i.ownerID == userID
}

// Update applies a partial update; empty strings and a nil available pointer
// leave the corresponding field untouched.
func (i *Item) Update(name, description string, available *bool) {
	if name != "" {
		i.name = name
	}
	if description != "" {
		i.description = description
	}
	if available != nil {
		i.available = *available
	}
}
