package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loopmarket/service-rental/internal/domain/booking"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"column:start_date;not null;index"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	ItemID    uint64    `gorm:"index;not null"`
	BookerID  uint64    `gorm:"index;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking and assigns its id.
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	model := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uint64) (*booking.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBooker retrieves bookings created by the given user, newest start
// first, optionally restricted to one status.
func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID uint64, filter booking.StateFilter, page booking.Page) ([]*booking.Booking, error) {
	query := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("booker_id = ?", bookerID)
	query = applyStateFilter(query, filter)

	var models []BookingModel
	if err := query.
		Order("start_date DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(models)
}

// FindByOwner retrieves bookings for items owned by the given user, newest
// start first, optionally restricted to one status.
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerID uint64, filter booking.StateFilter, page booking.Page) ([]*booking.Booking, error) {
	query := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("bookings.*").
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	query = applyStateFilter(query, filter)

	var models []BookingModel
	if err := query.
		Order("bookings.start_date DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by owner: %w", err)
	}
	return toDomainBookings(models)
}

// UpdateStatusIfWaiting performs WAITING -> target as a single conditional
// update. Zero rows affected means the booking already left WAITING, so the
// caller lost the race (or retried a decided booking).
func (r *GormBookingRepository) UpdateStatusIfWaiting(ctx context.Context, id uint64, target booking.Status) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status = ?", id, booking.StatusWaiting.String()).
		Updates(map[string]interface{}{
			"status":     target.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.ErrStatusAlreadySet
	}
	return nil
}

// LastForItem returns the most recently concluded APPROVED booking for the
// item, or nil when there is none.
func (r *GormBookingRepository) LastForItem(ctx context.Context, itemID uint64, now time.Time) (*booking.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND end_date < ?", itemID, booking.StatusApproved.String(), now).
		Order("end_date DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last booking for item: %w", err)
	}
	return toDomainBooking(&model)
}

// NextForItem returns the soonest upcoming APPROVED booking for the item, or
// nil when there is none.
func (r *GormBookingRepository) NextForItem(ctx context.Context, itemID uint64, now time.Time) (*booking.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND start_date > ?", itemID, booking.StatusApproved.String(), now).
		Order("start_date ASC, id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find next booking for item: %w", err)
	}
	return toDomainBooking(&model)
}

// LastForItems picks one concluded APPROVED booking per item id with
// DISTINCT ON, so the whole batch shares one now instant and the same
// ordering as LastForItem.
func (r *GormBookingRepository) LastForItems(ctx context.Context, itemIDs []uint64, now time.Time) (map[uint64]*booking.Booking, error) {
	if len(itemIDs) == 0 {
		return map[uint64]*booking.Booking{}, nil
	}

	var models []BookingModel
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT ON (item_id) *
		 FROM bookings
		 WHERE item_id IN ? AND status = ? AND end_date < ?
		 ORDER BY item_id, end_date DESC, id DESC`,
		itemIDs, booking.StatusApproved.String(), now,
	).Scan(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find last bookings for items: %w", err)
	}
	return toDomainBookingMap(models)
}

// NextForItems picks one upcoming APPROVED booking per item id, same shared
// now and ordering as NextForItem.
func (r *GormBookingRepository) NextForItems(ctx context.Context, itemIDs []uint64, now time.Time) (map[uint64]*booking.Booking, error) {
	if len(itemIDs) == 0 {
		return map[uint64]*booking.Booking{}, nil
	}

	var models []BookingModel
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT ON (item_id) *
		 FROM bookings
		 WHERE item_id IN ? AND status = ? AND start_date > ?
		 ORDER BY item_id, start_date ASC, id ASC`,
		itemIDs, booking.StatusApproved.String(), now,
	).Scan(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find next bookings for items: %w", err)
	}
	return toDomainBookingMap(models)
}

// --- Helpers ---

// applyStateFilter narrows the query to one stored status; the ALL wildcard
// leaves the query untouched.
func applyStateFilter(query *gorm.DB, filter booking.StateFilter) *gorm.DB {
	status, ok := filter.Status()
	if !ok {
		return query
	}
	return query.Where("bookings.status = ?", status.String())
}

func toBookingModel(b *booking.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		StartDate: b.Start(),
		EndDate:   b.End(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		Status:    b.Status().String(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*booking.Booking, error) {
	status, err := booking.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(m.ID, m.ItemID, m.BookerID, m.StartDate, m.EndDate, status, m.CreatedAt, m.UpdatedAt), nil
}

func toDomainBookings(models []BookingModel) ([]*booking.Booking, error) {
	bookings := make([]*booking.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

func toDomainBookingMap(models []BookingModel) (map[uint64]*booking.Booking, error) {
	out := make(map[uint64]*booking.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		out[b.ItemID()] = b
	}
	return out, nil
}
