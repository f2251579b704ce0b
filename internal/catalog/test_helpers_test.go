package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
)

func mustCreateTestUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("vl_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Repo Tester",
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("Test Tee %s", uuid.NewString()[:8]),
		Description:  "Soft cotton crew neck",
		Brand:        "Velvet Loom",
		Category:     enums.ProductCategoryTshirts,
		PriceCents:   49900,
		Sizes:        []string{"S", "M", "L"},
		Images:       []string{"https://cdn.example.com/tee.jpg"},
		CountInStock: stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
