package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db"
	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

// Service exposes catalog read paths plus admin product management.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	AddReview(ctx context.Context, productID, userID uuid.UUID, authorName string, input ReviewInput) (*ReviewDTO, error)
	UpdateReview(ctx context.Context, productID, userID uuid.UUID, input ReviewInput) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, productID, userID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name               string
	Description        string
	Brand              string
	Category           enums.ProductCategory
	ClothType          string
	PriceCents         int64
	OriginalPriceCents *int64
	DiscountPercentage int
	Sizes              []string
	Images             []string
	CountInStock       int
	IsFeatured         bool
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	Brand              *string
	Category           *enums.ProductCategory
	ClothType          *string
	PriceCents         *int64
	OriginalPriceCents *int64
	DiscountPercentage *int
	Sizes              *[]string
	Images             *[]string
	CountInStock       *int
	IsFeatured         *bool
}

// ReviewInput carries a review rating and comment.
type ReviewInput struct {
	Rating  int
	Comment string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error) {
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}

	products, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i]))
	}
	return &ProductListResult{
		Products: dtos,
		Meta:     pagination.NewMeta(input.Pagination, total),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	reviews, err := s.repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading reviews")
	}

	detail := &ProductDetailDTO{
		ProductDTO: toProductDTO(product),
		Reviews:    make([]ReviewDTO, 0, len(reviews)),
	}
	for i := range reviews {
		detail.Reviews = append(detail.Reviews, toReviewDTO(&reviews[i]))
	}
	return detail, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		Brand:              strings.TrimSpace(input.Brand),
		Category:           input.Category,
		ClothType:          strings.TrimSpace(input.ClothType),
		PriceCents:         input.PriceCents,
		OriginalPriceCents: input.OriginalPriceCents,
		DiscountPercentage: input.DiscountPercentage,
		Sizes:              input.Sizes,
		Images:             input.Images,
		CountInStock:       input.CountInStock,
		IsFeatured:         input.IsFeatured,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	dto := toProductDTO(created)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	applyUpdateToProduct(product, input)
	if product.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if product.CountInStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if !product.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	dto := toProductDTO(updated)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) AddReview(ctx context.Context, productID, userID uuid.UUID, authorName string, input ReviewInput) (*ReviewDTO, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Name:      strings.TrimSpace(authorName),
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateReview(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
			}
			return err
		}
		return repo.RefreshRating(ctx, productID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding review")
	}
	dto := toReviewDTO(review)
	return &dto, nil
}

func (s *service) UpdateReview(ctx context.Context, productID, userID uuid.UUID, input ReviewInput) (*ReviewDTO, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	review, err := s.repo.FindReview(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}

	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateReview(ctx, review); err != nil {
			return err
		}
		return repo.RefreshRating(ctx, productID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating review")
	}
	dto := toReviewDTO(review)
	return &dto, nil
}

func (s *service) DeleteReview(ctx context.Context, productID, userID uuid.UUID) error {
	if _, err := s.repo.FindReview(ctx, productID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteReview(ctx, productID, userID); err != nil {
			return err
		}
		return repo.RefreshRating(ctx, productID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting review")
	}
	return nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CountInStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.DiscountPercentage < 0 || input.DiscountPercentage > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percentage out of range")
	}
	return nil
}

func validateReviewInput(input ReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ClothType != nil {
		product.ClothType = strings.TrimSpace(*input.ClothType)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.OriginalPriceCents != nil {
		product.OriginalPriceCents = input.OriginalPriceCents
	}
	if input.DiscountPercentage != nil {
		product.DiscountPercentage = *input.DiscountPercentage
	}
	if input.Sizes != nil {
		product.Sizes = append([]string(nil), (*input.Sizes)...)
	}
	if input.Images != nil {
		product.Images = append([]string(nil), (*input.Images)...)
	}
	if input.CountInStock != nil {
		product.CountInStock = *input.CountInStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}
