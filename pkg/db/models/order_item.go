package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/enums"
)

// OrderItem snapshots one purchased line. Name, image, price and category are
// copied from the product at placement so later catalog edits cannot change a
// historical order.
type OrderItem struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Name           string                `gorm:"type:text;not null"`
	Image          string                `gorm:"type:text"`
	Size           string                `gorm:"column:size;type:text;not null"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	UnitPriceCents int64                 `gorm:"column:unit_price_cents;not null"`
	LineTotalCents int64                 `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
