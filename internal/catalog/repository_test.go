package catalog

import (
	"context"
	"testing"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	tee := mustCreateTestProduct(t, conn, 5)
	belt := &models.Product{
		Name:         "Leather Belt",
		Description:  "Full grain",
		Brand:        "Velvet Loom",
		Category:     enums.ProductCategoryAccessories,
		PriceCents:   19900,
		CountInStock: 3,
	}
	if err := conn.Create(belt).Error; err != nil {
		t.Fatalf("create belt: %v", err)
	}

	all, total, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 10}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 products, got total=%d len=%d", total, len(all))
	}

	cat := enums.ProductCategoryAccessories
	filtered, total, err := repo.List(ctx, ListInput{Category: &cat})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 || filtered[0].ID != belt.ID {
		t.Fatalf("category filter failed: total=%d", total)
	}

	searched, total, err := repo.List(ctx, ListInput{Search: "belt"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || searched[0].ID != belt.ID {
		t.Fatalf("search filter failed: total=%d", total)
	}

	_ = tee
}

func TestRepositoryDecrementStock(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 1)

	ok, err := repo.DecrementStock(ctx, product.ID, 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected first decrement to succeed")
	}

	ok, err = repo.DecrementStock(ctx, product.ID, 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected second decrement to fail on empty stock")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CountInStock != 0 {
		t.Fatalf("stock went to %d, must never be negative", reloaded.CountInStock)
	}
}

func TestRepositoryDecrementStockPartial(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 3)

	ok, err := repo.DecrementStock(ctx, product.ID, 5)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected oversized decrement to be rejected")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CountInStock != 3 {
		t.Fatalf("rejected decrement must leave stock untouched, got %d", reloaded.CountInStock)
	}
}

func TestRepositoryRefreshRating(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 5)
	alice := mustCreateTestUser(t, conn)
	bob := mustCreateTestUser(t, conn)

	for _, row := range []*models.ProductReview{
		{ProductID: product.ID, UserID: alice.ID, Name: "Alice", Rating: 5, Comment: "great"},
		{ProductID: product.ID, UserID: bob.ID, Name: "Bob", Rating: 4, Comment: "good"},
	} {
		if _, err := repo.CreateReview(ctx, row); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	if err := repo.RefreshRating(ctx, product.ID); err != nil {
		t.Fatalf("refresh rating: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.NumReviews != 2 {
		t.Fatalf("num_reviews = %d", reloaded.NumReviews)
	}
	if reloaded.Rating != 4.5 {
		t.Fatalf("rating = %f, expected 4.5", reloaded.Rating)
	}
}
