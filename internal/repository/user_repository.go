package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loopmarket/service-rental/internal/domain/user"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:255"`
	Email     string    `gorm:"not null;size:255;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save persists a new user and assigns its id. A duplicate email surfaces as
// a conflict.
func (r *GormUserRepository) Save(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict(fmt.Sprintf("email %s is already registered", u.Email()))
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	u.SetID(model.ID)
	return nil
}

// Update persists changes to an existing user. A duplicate email surfaces as
// a conflict.
func (r *GormUserRepository) Update(ctx context.Context, u *user.User) error {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":       u.Name(),
			"email":      u.Email(),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict(fmt.Sprintf("email %s is already registered", u.Email()))
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a user by id.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&UserModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by its unique identifier.
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*user.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", id)
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return toDomainUser(&model), nil
}

// FindByIDs retrieves users for the given ids, keyed by id. Missing ids are
// simply absent from the result.
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*user.User, error) {
	if len(ids) == 0 {
		return map[uint64]*user.User{}, nil
	}

	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users by ids: %w", err)
	}

	out := make(map[uint64]*user.User, len(models))
	for i := range models {
		u := toDomainUser(&models[i])
		out[u.ID()] = u
	}
	return out, nil
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
	}
}

func toDomainUser(m *UserModel) *user.User {
	return user.Reconstruct(m.ID, m.Name, m.Email)
}
