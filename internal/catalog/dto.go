package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

// ProductDTO is the API projection of a catalog listing.
type ProductDTO struct {
	ID                 uuid.UUID             `json:"id"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	Brand              string                `json:"brand"`
	Category           enums.ProductCategory `json:"category"`
	ClothType          string                `json:"cloth_type,omitempty"`
	PriceCents         int64                 `json:"price_cents"`
	OriginalPriceCents *int64                `json:"original_price_cents,omitempty"`
	HasDiscount        bool                  `json:"has_discount"`
	DiscountPercentage int                   `json:"discount_percentage"`
	Sizes              []string              `json:"sizes"`
	Images             []string              `json:"images"`
	CountInStock       int                   `json:"count_in_stock"`
	InStock            bool                  `json:"in_stock"`
	Rating             float64               `json:"rating"`
	NumReviews         int                   `json:"num_reviews"`
	IsFeatured         bool                  `json:"is_featured"`
	CreatedAt          time.Time             `json:"created_at"`
}

// ReviewDTO is the API projection of a product review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetailDTO bundles a product with its reviews.
type ProductDetailDTO struct {
	ProductDTO
	Reviews []ReviewDTO `json:"reviews"`
}

// ProductListResult is one page of catalog results.
type ProductListResult struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// ToProductDTO projects a product model for API responses. Exported for
// packages that list products outside the catalog, such as the wishlist.
func ToProductDTO(product *models.Product) ProductDTO {
	return toProductDTO(product)
}

func toProductDTO(product *models.Product) ProductDTO {
	sizes := product.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		Brand:              product.Brand,
		Category:           product.Category,
		ClothType:          product.ClothType,
		PriceCents:         product.PriceCents,
		OriginalPriceCents: product.OriginalPriceCents,
		HasDiscount:        product.HasDiscount(),
		DiscountPercentage: product.DiscountPercentage,
		Sizes:              sizes,
		Images:             images,
		CountInStock:       product.CountInStock,
		InStock:            product.CountInStock > 0,
		Rating:             product.Rating,
		NumReviews:         product.NumReviews,
		IsFeatured:         product.IsFeatured,
		CreatedAt:          product.CreatedAt,
	}
}

func toReviewDTO(review *models.ProductReview) ReviewDTO {
	return ReviewDTO{
		ID:        review.ID,
		UserID:    review.UserID,
		Name:      review.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
