package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

// ListInput filters the catalog listing.
type ListInput struct {
	Category   *enums.ProductCategory
	Search     string
	Pagination pagination.Params
}

// Repository wires together catalog persistence helpers.
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

// FindByID loads the product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a filtered page of products plus the total match count.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if input.Category != nil {
		query = query.Where("category = ?", *input.Category)
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := pagination.Normalize(input.Pagination)
	var products []models.Product
	err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create inserts the product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// DecrementStock conditionally reduces count_in_stock. It reports false when
// the row had less stock than requested, leaving the row untouched. This is
// the only stock mutation used by order placement.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET count_in_stock = count_in_stock - ? WHERE id = ? AND count_in_stock >= ?",
		quantity, productID, quantity,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateReview inserts a review row.
func (r *Repository) CreateReview(ctx context.Context, review *models.ProductReview) (*models.ProductReview, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindReview loads the review a user left on a product.
func (r *Repository) FindReview(ctx context.Context, productID, userID uuid.UUID) (*models.ProductReview, error) {
	var review models.ProductReview
	err := r.db.WithContext(ctx).
		First(&review, "product_id = ? AND user_id = ?", productID, userID).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview saves the review row.
func (r *Repository) UpdateReview(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// DeleteReview removes the review a user left on a product.
func (r *Repository) DeleteReview(ctx context.Context, productID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.ProductReview{}, "product_id = ? AND user_id = ?", productID, userID).Error
}

// ListReviews returns all reviews for a product, newest first.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// RefreshRating recomputes the product's rating aggregate from its reviews.
func (r *Repository) RefreshRating(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE products SET
			num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = ?),
			rating = COALESCE((SELECT AVG(rating) FROM product_reviews WHERE product_id = ?), 0)
		WHERE id = ?`,
		productID, productID, productID,
	).Error
}
