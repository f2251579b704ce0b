package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/enums"
)

// Product is a catalog listing. Sizes and Images are stored as JSON so a
// single row carries the full storefront card.
type Product struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name               string                `gorm:"type:text;not null"`
	Description        string                `gorm:"type:text;not null"`
	Brand              string                `gorm:"type:text;not null"`
	Category           enums.ProductCategory `gorm:"type:text;not null;index"`
	ClothType          string                `gorm:"column:cloth_type"`
	PriceCents         int64                 `gorm:"column:price_cents;not null"`
	OriginalPriceCents *int64                `gorm:"column:original_price_cents"`
	DiscountPercentage int                   `gorm:"column:discount_percentage;not null;default:0"`
	Sizes              []string              `gorm:"column:sizes;serializer:json"`
	Images             []string              `gorm:"column:images;serializer:json"`
	CountInStock       int                   `gorm:"column:count_in_stock;not null;default:0"`
	Rating             float64               `gorm:"column:rating;not null;default:0"`
	NumReviews         int                   `gorm:"column:num_reviews;not null;default:0"`
	IsFeatured         bool                  `gorm:"column:is_featured;not null;default:false"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// HasDiscount reports whether the listing carries a struck-through price.
func (p *Product) HasDiscount() bool {
	return p.OriginalPriceCents != nil && *p.OriginalPriceCents > p.PriceCents
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
