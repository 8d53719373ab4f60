package item

import "context"

// Lookup resolves item ids to items. This is the only capability the booking
// engine depends on.
type Lookup interface {
	// FindByID retrieves an item by id, or a not-found error.
	FindByID(ctx context.Context, id uint64) (*Item, error)

	// FindByIDs retrieves the items for the given ids, keyed by id.
	// Missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*Item, error)
}

// Repository defines the persistence contract for items.
type Repository interface {
	Lookup

	// Save persists a new item and assigns its id.
	Save(ctx context.Context, i *Item) error

	// Update persists changes to an existing item.
	Update(ctx context.Context, i *Item) error

	// Delete removes an item by id.
	Delete(ctx context.Context, id uint64) error

	// FindByOwner retrieves the owner's items ordered by id, with row-offset
	// pagination.
	FindByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]*Item, error)

	// Search retrieves available items whose name or description matches the
	// text, case-insensitively, with row-offset pagination.
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
}
