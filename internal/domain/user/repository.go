package user

import "context"

// Lookup resolves user ids to users. This is the only capability the booking
// engine needs, so it can be faked in tests without a full repository.
type Lookup interface {
	// FindByID retrieves a user by id, or a not-found error.
	FindByID(ctx context.Context, id uint64) (*User, error)

	// FindByIDs retrieves the users for the given ids, keyed by id.
	// Missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*User, error)
}

// Repository defines the persistence contract for users.
type Repository interface {
	Lookup

	// Save persists a new user and assigns its id.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by id.
	Delete(ctx context.Context, id uint64) error
}
