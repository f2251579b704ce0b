package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/velvetloom/velvetloom-backend/pkg/db"
	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

func TestRepositoryFindByRef(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	now := time.Now().UTC()
	order := mustCreateTestOrder(t, conn, user.ID, now)
	order.Items = []models.OrderItem{{
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		Name:           "Linen Shirt",
		Size:           "M",
		Category:       enums.ProductCategoryShirts,
		Quantity:       2,
		UnitPriceCents: 24950,
		LineTotalCents: 49900,
	}}
	require.NoError(t, conn.Save(order).Error)

	byNumber, err := repo.FindByRef(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 1)
	assert.Equal(t, "Linen Shirt", byNumber.Items[0].Name)

	byID, err := repo.FindByRef(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, byID.OrderID)

	_, err = repo.FindByRef(ctx, "ORD0000000000000000")
	assert.Error(t, err)
}

func TestRepositoryOrderNumberExists(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	order := mustCreateTestOrder(t, conn, user.ID, time.Now().UTC())

	exists, err := repo.OrderNumberExists(ctx, order.OrderID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.OrderNumberExists(ctx, "ORD0000000000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryCreateRejectsDuplicateOrderNumber(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	now := time.Now().UTC()
	order := mustCreateTestOrder(t, conn, user.ID, now)

	dup := &models.Order{
		ID:                 uuid.New(),
		OrderID:            order.OrderID,
		UserID:             user.ID,
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
	_, err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))
}

func TestRepositoryCouponRedemptionIsUniquePerUser(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	other := mustCreateTestUser(t, conn)

	used, err := repo.CouponUsed(ctx, user.ID, "welcome20")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.RecordCouponUse(ctx, &models.UsedCoupon{
		UserID:  user.ID,
		Code:    "WELCOME20",
		OrderID: uuid.New(),
	}))

	// lookup is case-insensitive on the code
	used, err = repo.CouponUsed(ctx, user.ID, "welcome20")
	require.NoError(t, err)
	assert.True(t, used)

	err = repo.RecordCouponUse(ctx, &models.UsedCoupon{
		UserID:  user.ID,
		Code:    "WELCOME20",
		OrderID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))

	// a different account may still redeem the same code
	require.NoError(t, repo.RecordCouponUse(ctx, &models.UsedCoupon{
		UserID:  other.ID,
		Code:    "WELCOME20",
		OrderID: uuid.New(),
	}))
}

func TestRepositoryListAllPaginates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		mustCreateTestOrder(t, conn, user.ID, base.Add(time.Duration(i)*time.Minute))
	}

	page, total, err := repo.ListAll(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	last, total, err := repo.ListAll(ctx, pagination.Params{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, last, 1)
}

func TestRepositoryDeleteRemovesItems(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	order := mustCreateTestOrder(t, conn, user.ID, time.Now().UTC())
	require.NoError(t, conn.Create(&models.OrderItem{
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		Name:           "Canvas Tote",
		Size:           "One Size",
		Category:       enums.ProductCategoryAccessories,
		Quantity:       1,
		UnitPriceCents: 9900,
		LineTotalCents: 9900,
	}).Error)

	require.NoError(t, repo.Delete(ctx, order.ID))

	_, err := repo.FindByRef(ctx, order.OrderID)
	assert.Error(t, err)

	var itemCount int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)
}
