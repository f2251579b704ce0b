package cart

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("vl_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Cart Tester",
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, priceCents int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         fmt.Sprintf("Oxford Shirt %s", uuid.NewString()[:8]),
		Description:  "Classic fit",
		Brand:        "Velvet Loom",
		Category:     enums.ProductCategoryShirts,
		PriceCents:   priceCents,
		Sizes:        []string{"S", "M", "L"},
		CountInStock: stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
