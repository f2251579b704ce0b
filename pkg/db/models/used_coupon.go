package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsedCoupon records a coupon redemption. The unique index is what enforces
// single use per account under concurrent checkouts.
type UsedCoupon struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_used_coupons_user_code"`
	Code      string    `gorm:"column:code;type:text;not null;uniqueIndex:idx_used_coupons_user_code"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (u *UsedCoupon) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
