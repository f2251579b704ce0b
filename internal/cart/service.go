package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
)

// Service exposes cart operations for the authenticated user.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, size string) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AddItemInput adds quantity of a product/size to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

// UpdateQuantityInput replaces the quantity on an existing line.
type UpdateQuantityInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	return s.buildCart(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	size := strings.TrimSpace(input.Size)
	if size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if len(product.Sizes) > 0 && !containsSize(product.Sizes, size) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}

	existing, err := s.repo.FindLine(ctx, userID, product.ID, size)
	switch {
	case err == nil:
		// Same product and size merges into the existing line.
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line := &models.CartItem{
			UserID:    userID,
			ProductID: product.ID,
			Size:      size,
			Quantity:  quantity,
		}
		if err := s.repo.Create(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	return s.buildCart(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	line, err := s.repo.FindLine(ctx, userID, input.ProductID, strings.TrimSpace(input.Size))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	return s.buildCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, size string) (*CartDTO, error) {
	line, err := s.repo.FindLine(ctx, userID, productID, strings.TrimSpace(size))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	if err := s.repo.Delete(ctx, line.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return s.buildCart(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

func (s *service) buildCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart")
	}

	cart := &CartDTO{Items: make([]LineDTO, 0, len(items))}
	for i := range items {
		product, err := s.products.FindByID(ctx, items[i].ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product was removed from the catalog; drop the stale line.
				_ = s.repo.Delete(ctx, items[i].ID)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart product")
		}
		line := toLineDTO(&items[i], product)
		cart.Items = append(cart.Items, line)
		cart.ItemCount += line.Quantity
		cart.SubtotalCents += line.LineTotalCents
	}
	return cart, nil
}

func containsSize(sizes []string, size string) bool {
	for _, candidate := range sizes {
		if strings.EqualFold(candidate, size) {
			return true
		}
	}
	return false
}
