package wishlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/internal/catalog"
	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
)

func newTestWishlistService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Product{}, &models.WishlistItem{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return svc, conn
}

func createProduct(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("Wish Tee %s", uuid.NewString()[:8]),
		Brand:        "Velvet Loom",
		Category:     enums.ProductCategoryTshirts,
		PriceCents:   19900,
		Sizes:        []string{"M"},
		CountInStock: 3,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestWishlistAddListRemove(t *testing.T) {
	svc, conn := newTestWishlistService(t)
	ctx := context.Background()
	userID := uuid.New()

	first := createProduct(t, conn)
	second := createProduct(t, conn)

	if err := svc.Add(ctx, userID, first.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Add(ctx, userID, second.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	// Re-adding is a no-op, not an error.
	if err := svc.Add(ctx, userID, first.ID); err != nil {
		t.Fatalf("duplicate Add returned error: %v", err)
	}

	got, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	if err := svc.Remove(ctx, userID, first.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	// Removing again is also a no-op.
	if err := svc.Remove(ctx, userID, first.ID); err != nil {
		t.Fatalf("repeat Remove returned error: %v", err)
	}

	got, err = svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("unexpected items after remove: %+v", got)
	}
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	svc, _ := newTestWishlistService(t)

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWishlistIsolatedPerUser(t *testing.T) {
	svc, conn := newTestWishlistService(t)
	ctx := context.Background()

	product := createProduct(t, conn)
	first := uuid.New()
	second := uuid.New()

	if err := svc.Add(ctx, first, product.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	got, err := svc.List(ctx, second)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty wishlist, got %d items", len(got))
	}
}
