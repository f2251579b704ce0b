package cart

import (
	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
)

// LineDTO is one cart line joined with its product card.
type LineDTO struct {
	ItemID         uuid.UUID `json:"item_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Image          string    `json:"image,omitempty"`
	Size           string    `json:"size"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	InStock        bool      `json:"in_stock"`
}

// CartDTO is the full cart response.
type CartDTO struct {
	Items         []LineDTO `json:"items"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

func toLineDTO(item *models.CartItem, product *models.Product) LineDTO {
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return LineDTO{
		ItemID:         item.ID,
		ProductID:      product.ID,
		Name:           product.Name,
		Brand:          product.Brand,
		Image:          image,
		Size:           item.Size,
		Quantity:       item.Quantity,
		UnitPriceCents: product.PriceCents,
		LineTotalCents: product.PriceCents * int64(item.Quantity),
		InStock:        product.CountInStock >= item.Quantity,
	}
}
