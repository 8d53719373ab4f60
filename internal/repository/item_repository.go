package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loopmarket/service-rental/internal/domain/item"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"not null"`
	Available   bool      `gorm:"not null;index"`
	OwnerID     uint64    `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of item.Repository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Save persists a new item and assigns its id.
func (r *GormItemRepository) Save(ctx context.Context, itm *item.Item) error {
	model := toItemModel(itm)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	itm.SetID(model.ID)
	return nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, itm *item.Item) error {
	model := toItemModel(itm)
	if err := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", itm.ID()).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"available":   model.Available,
			"updated_at":  time.Now().UTC(),
		}).Error; err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// Delete removes an item by id.
func (r *GormItemRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&ItemModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemRepository) FindByID(ctx context.Context, id uint64) (*item.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("item", id)
		}
		return nil, fmt.Errorf("failed to find item by id: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByIDs retrieves items for the given ids, keyed by id. Missing ids are
// simply absent from the result.
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*item.Item, error) {
	if len(ids) == 0 {
		return map[uint64]*item.Item{}, nil
	}

	var models []ItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by ids: %w", err)
	}

	out := make(map[uint64]*item.Item, len(models))
	for i := range models {
		itm := toDomainItem(&models[i])
		out[itm.ID()] = itm
	}
	return out, nil
}

// FindByOwner retrieves the items listed by the given owner in insertion
// order.
func (r *GormItemRepository) FindByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]*item.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toDomainItems(models), nil
}

// Search retrieves available items whose name or description contains the
// text, case-insensitively.
func (r *GormItemRepository) Search(ctx context.Context, text string, offset, limit int) ([]*item.Item, error) {
	pattern := "%" + text + "%"
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

func toItemModel(itm *item.Item) *ItemModel {
	return &ItemModel{
		ID:          itm.ID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
		OwnerID:     itm.OwnerID(),
	}
}

func toDomainItem(m *ItemModel) *item.Item {
	return item.Reconstruct(m.ID, m.Name, m.Description, m.Available, m.OwnerID)
}

func toDomainItems(models []ItemModel) []*item.Item {
	items := make([]*item.Item, len(models))
	for i := range models {
		items[i] = toDomainItem(&models[i])
	}
	return items
}
