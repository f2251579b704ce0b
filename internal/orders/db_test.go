package orders

import (
	"fmt"
	"testing"
	"time"

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
	err = conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.UsedCoupon{},
	)
	if err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("vl_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Order Tester",
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, category enums.ProductCategory, priceCents int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("Test %s %s", category, uuid.NewString()[:8]),
		Description:  "Order flow fixture",
		Brand:        "Velvet Loom",
		Category:     category,
		PriceCents:   priceCents,
		Sizes:        []string{"S", "M", "L"},
		Images:       []string{"https://cdn.example.com/item.jpg"},
		CountInStock: stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustAddCartLine(t *testing.T, conn *gorm.DB, userID, productID uuid.UUID, size string, quantity int) {
	t.Helper()
	line := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
	}
	if err := conn.Create(line).Error; err != nil {
		t.Fatalf("create cart item: %v", err)
	}
}

func mustCreateTestOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, now time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                 uuid.New(),
		OrderID:            newOrderNumber(now),
		UserID:             userID,
		ItemsSubtotalCents: 49900,
		TotalCents:         51400,
		PaymentMethod:      enums.PaymentMethodCOD,
		PaymentStatus:      enums.PaymentStatusPending,
		Status:             enums.OrderStatusPlaced,
		ReturnStatus:       enums.ReturnStatusNone,
		TrackingSteps:      BuildForecast(now),
		CancelAllowedUntil: now.Add(cancelWindow),
		ReturnEligible:     true,
	}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
