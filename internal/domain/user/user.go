package user

import (
	"strings"

	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// User is a registered participant: a potential item owner and booker.
type User struct {
	id    uint64
	name  string
	email string
}

// NewUser creates a new user with validated fields. The id is assigned by
// the store on save.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, apperrors.NewValidation("user name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidation("a valid email is required")
	}
	return &User{name: name, email: email}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uint64, name, email string) *User {
	return &User{id: id, name: name, email: email}
}

func (u *User) ID() uint64    { return u.id }
func (u *User) Name() string  { return u.name }
func (u *User) Email() string { return u.email }

// SetID is called by the repository once the store has assigned an id.
func (u *User) SetID(id uint64) { u.id = id }

// Update applies a partial update; empty fields are left untouched.
func (u *User) Update(name, email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return apperrors.NewValidation("a valid email is required")
	}
	if name != "" {
		u.name = name
	}
	if email != "" {
		u.email = email
	}
	return nil
}
