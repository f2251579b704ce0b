package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

// Order is the placed-order aggregate. Monetary fields are integer cents.
// Shipping address, payment details and the tracking timeline are JSON
// snapshots frozen at placement or mutation time.
type Order struct {
	ID                    uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OrderID               string                `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	UserID                uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Items                 []OrderItem           `gorm:"foreignKey:OrderID;references:ID"`
	ItemsSubtotalCents    int64                 `gorm:"column:items_subtotal_cents;not null"`
	DiscountCents         int64                 `gorm:"column:discount_cents;not null;default:0"`
	ShippingFeeCents      int64                 `gorm:"column:shipping_fee_cents;not null;default:0"`
	ConvenienceFeeCents   int64                 `gorm:"column:convenience_fee_cents;not null;default:0"`
	TotalCents            int64                 `gorm:"column:total_cents;not null"`
	CouponCode            *string               `gorm:"column:coupon_code"`
	PaymentMethod         enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus         enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null"`
	PaymentDetails        types.PaymentDetails  `gorm:"column:payment_details;serializer:json"`
	ShippingAddress       types.ShippingAddress `gorm:"column:shipping_address;serializer:json"`
	Status                enums.OrderStatus     `gorm:"column:status;type:text;not null;index"`
	ReturnStatus          enums.ReturnStatus    `gorm:"column:return_status;type:text;not null"`
	TrackingSteps         []types.TrackingStep  `gorm:"column:tracking_steps;serializer:json"`
	CancelAllowedUntil    time.Time             `gorm:"column:cancel_allowed_until;not null"`
	IsCancelled           bool                  `gorm:"column:is_cancelled;not null;default:false"`
	DeliveredAt           *time.Time            `gorm:"column:delivered_at"`
	ReturnEligible        bool                  `gorm:"column:return_eligible;not null;default:false"`
	ReturnWindowExpiresAt *time.Time            `gorm:"column:return_window_expires_at"`
	ReturnReason          *string               `gorm:"column:return_reason"`
	ReturnDescription     *string               `gorm:"column:return_description"`
	ReturnRequestedAt     *time.Time            `gorm:"column:return_requested_at"`
	ReturnCompletedAt     *time.Time            `gorm:"column:return_completed_at"`
	CreatedAt             time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
