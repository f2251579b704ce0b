package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

// Repository persists orders, their item snapshots and coupon redemptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order together with its item snapshots.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// OrderNumberExists reports whether the public reference is already taken.
func (r *Repository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByRef loads an order by public order number or primary key uuid.
func (r *Repository) FindByRef(ctx context.Context, ref string) (*models.Order, error) {
	ref = strings.TrimSpace(ref)
	query := r.db.WithContext(ctx).Preload("Items")

	if id, err := uuid.Parse(ref); err == nil {
		var order models.Order
		if err := query.First(&order, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &order, nil
	}

	var order models.Order
	if err := query.First(&order, "order_id = ?", ref).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns a page of every order, newest first.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params = pagination.Normalize(params)
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Update saves the full order row.
func (r *Repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete removes the order and its item snapshots.
func (r *Repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Order{}, "id = ?", orderID).Error
}

// CouponUsed reports whether the user already redeemed the code.
func (r *Repository) CouponUsed(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	var row models.UsedCoupon
	err := r.db.WithContext(ctx).
		First(&row, "user_id = ? AND code = ?", userID, strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RecordCouponUse inserts the redemption row. The unique index on
// (user_id, code) makes concurrent double-redemption impossible.
func (r *Repository) RecordCouponUse(ctx context.Context, row *models.UsedCoupon) error {
	return r.db.WithContext(ctx).Create(row).Error
}
