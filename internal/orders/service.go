package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/internal/cart"
	"github.com/velvetloom/velvetloom-backend/internal/catalog"
	"github.com/velvetloom/velvetloom-backend/internal/pricing"
	"github.com/velvetloom/velvetloom-backend/pkg/db"
	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

const (
	// cancelWindow bounds customer-initiated cancellation after placement.
	cancelWindow = 24 * time.Hour
	// returnWindow opens at delivery for eligible orders.
	returnWindow = 7 * 24 * time.Hour
)

// Service exposes the order lifecycle.
type Service interface {
	PreviewCheckout(ctx context.Context, userID uuid.UUID, couponCode string) (*pricing.Quote, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*OrderDTO, error)
	Track(ctx context.Context, ref string) (*TrackDTO, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*OrderDTO, error)
	RequestReturn(ctx context.Context, userID uuid.UUID, ref string, input ReturnRequestInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, ref string, input UpdateStatusInput) (*OrderDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) error
}

// PlaceOrderInput is the validated checkout payload. Payment details are
// recorded as stated, never charged.
type PlaceOrderInput struct {
	ShippingAddress types.ShippingAddress
	PaymentMethod   enums.PaymentMethod
	PaymentDetails  types.PaymentDetails
	CouponCode      string
}

// ReturnRequestInput carries the customer's return reason.
type ReturnRequestInput struct {
	Reason      string
	Description string
}

// UpdateStatusInput is the admin status mutation.
type UpdateStatusInput struct {
	Status       enums.OrderStatus
	ReturnStatus *enums.ReturnStatus
}

type service struct {
	repo     *Repository
	cartRepo *cart.Repository
	catalog  *catalog.Repository
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs an orders service instance.
func NewService(repo *Repository, cartRepo *cart.Repository, catalogRepo *catalog.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		catalog:  catalogRepo,
		dbClient: dbClient,
		now:      time.Now,
	}, nil
}

// PreviewCheckout prices the current cart without side effects. Placement
// runs the same computation, so the previewed total is the charged total.
func (s *service) PreviewCheckout(ctx context.Context, userID uuid.UUID, couponCode string) (*pricing.Quote, error) {
	lines, _, err := s.loadCartLines(ctx, s.cartRepo, s.catalog, userID)
	if err != nil {
		return nil, err
	}

	couponUsed, err := s.couponUsed(ctx, s.repo, userID, couponCode)
	if err != nil {
		return nil, err
	}
	return pricing.Compute(lines, couponCode, couponUsed)
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if err := validateShippingAddress(input.ShippingAddress); err != nil {
		return nil, err
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCOD
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var placed *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		lines, items, err := s.loadCartLines(ctx, cartRepo, catalogRepo, userID)
		if err != nil {
			return err
		}

		couponUsed, err := s.couponUsed(ctx, repo, userID, input.CouponCode)
		if err != nil {
			return err
		}
		quote, err := pricing.Compute(lines, input.CouponCode, couponUsed)
		if err != nil {
			return err
		}

		now := s.now()

		orderNumber, err := s.allocateOrderNumber(ctx, repo, now)
		if err != nil {
			return err
		}

		returnEligible := true
		for i := range items {
			if items[i].Category == enums.ProductCategoryAccessories {
				returnEligible = false
				break
			}
		}

		order := &models.Order{
			OrderID:             orderNumber,
			UserID:              userID,
			Items:               items,
			ItemsSubtotalCents:  quote.SubtotalCents,
			DiscountCents:       quote.DiscountCents,
			ShippingFeeCents:    quote.ShippingFeeCents,
			ConvenienceFeeCents: quote.ConvenienceFeeCents,
			TotalCents:          quote.TotalCents,
			CouponCode:          quote.CouponCode,
			PaymentMethod:       method,
			PaymentStatus:       enums.PaymentStatusPending,
			PaymentDetails:      input.PaymentDetails,
			ShippingAddress:     input.ShippingAddress,
			Status:              enums.OrderStatusPlaced,
			ReturnStatus:        enums.ReturnStatusNone,
			TrackingSteps:       BuildForecast(now),
			CancelAllowedUntil:  now.Add(cancelWindow),
			ReturnEligible:      returnEligible,
		}

		if _, err := repo.Create(ctx, order); err != nil {
			// The precheck in allocateOrderNumber leaves a narrow
			// check-to-insert race; the unique index is the backstop.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order number collision, retry placement")
			}
			return fmt.Errorf("creating order: %w", err)
		}

		if quote.CouponCode != nil {
			redemption := &models.UsedCoupon{
				UserID:  userID,
				Code:    *quote.CouponCode,
				OrderID: order.ID,
			}
			if err := repo.RecordCouponUse(ctx, redemption); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.New(pkgerrors.CodeConflict, "coupon code already used")
				}
				return fmt.Errorf("recording coupon use: %w", err)
			}
		}

		// The conditional decrement is what makes concurrent placements
		// safe: losing the race rolls back the entire placement.
		for i := range order.Items {
			item := &order.Items[i]
			ok, err := catalogRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrementing stock: %w", err)
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("insufficient stock for %s", item.Name))
			}
		}

		if err := cartRepo.ClearByUser(ctx, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		placed = order
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	dto := toOrderDTO(placed)
	return &dto, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toOrderDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*OrderDTO, error) {
	order, err := s.findOwned(ctx, userID, isAdmin, ref)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// Track is public: it exposes the timeline by order number without
// identifying the customer.
func (s *service) Track(ctx context.Context, ref string) (*TrackDTO, error) {
	order, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &TrackDTO{
		OrderNumber: order.OrderID,
		Status:      order.Status,
		IsCancelled: order.IsCancelled,
		Steps:       ProjectSteps(order),
	}, nil
}

func (s *service) CancelOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*OrderDTO, error) {
	order, err := s.findOwned(ctx, userID, isAdmin, ref)
	if err != nil {
		return nil, err
	}

	if order.Status != enums.OrderStatusPlaced && order.Status != enums.OrderStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel order at this stage")
	}
	now := s.now()
	if now.After(order.CancelAllowedUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation window expired")
	}

	order.Status = enums.OrderStatusCancelled
	order.IsCancelled = true
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

func (s *service) RequestReturn(ctx context.Context, userID uuid.UUID, ref string, input ReturnRequestInput) (*OrderDTO, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return reason is required")
	}

	order, err := s.findOwned(ctx, userID, false, ref)
	if err != nil {
		return nil, err
	}

	if !order.ReturnEligible {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not eligible for return")
	}
	now := s.now()
	// A nil window means the order was never delivered; that also reads as
	// expired to the caller.
	if order.ReturnWindowExpiresAt == nil || now.After(*order.ReturnWindowExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "return window expired")
	}
	if order.ReturnStatus != enums.ReturnStatusNone {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "return already requested or processed")
	}

	description := strings.TrimSpace(input.Description)
	order.ReturnStatus = enums.ReturnStatusRequested
	order.ReturnReason = &reason
	if description != "" {
		order.ReturnDescription = &description
	}
	order.ReturnRequestedAt = &now

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "requesting return")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// UpdateStatus sets the order status without enforcing forward-only order;
// step progression stays a storefront convention. Forecast dates at or
// before the new status collapse to actuals.
func (s *service) UpdateStatus(ctx context.Context, ref string, input UpdateStatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.ReturnStatus != nil && !input.ReturnStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid return status")
	}

	order, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	now := s.now()
	order.Status = input.Status

	if input.Status == enums.OrderStatusCancelled {
		order.IsCancelled = true
	} else {
		order.IsCancelled = false
		if idx := enums.TrackingIndex(input.Status); idx >= 0 {
			order.TrackingSteps = collapseSteps(order.TrackingSteps, idx, now)
		}
	}

	if input.Status == enums.OrderStatusDelivered {
		order.DeliveredAt = &now
		if order.ReturnEligible && order.ReturnWindowExpiresAt == nil {
			expires := now.Add(returnWindow)
			order.ReturnWindowExpiresAt = &expires
		}
	}

	if input.ReturnStatus != nil {
		order.ReturnStatus = *input.ReturnStatus
		if *input.ReturnStatus == enums.ReturnStatusCompleted {
			order.ReturnCompletedAt = &now
		}
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toOrderDTO(&rows[i]))
	}
	return &ListResult{Orders: out, Meta: pagination.NewMeta(params, total)}, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) error {
	order, err := s.findOwned(ctx, userID, isAdmin, ref)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*models.Order, error) {
	order, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if !isAdmin && order.UserID != userID {
		// Another customer's order is indistinguishable from a missing one.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) loadCartLines(ctx context.Context, cartRepo *cart.Repository, catalogRepo *catalog.Repository, userID uuid.UUID) ([]pricing.Line, []models.OrderItem, error) {
	cartItems, err := cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart")
	}
	if len(cartItems) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]pricing.Line, 0, len(cartItems))
	items := make([]models.OrderItem, 0, len(cartItems))
	for i := range cartItems {
		ci := &cartItems[i]
		product, err := catalogRepo.FindByID(ctx, ci.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product.CountInStock < ci.Quantity {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("insufficient stock for %s", product.Name))
		}

		lines = append(lines, pricing.Line{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       ci.Quantity,
		})

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, models.OrderItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Image:          image,
			Size:           ci.Size,
			Category:       product.Category,
			Quantity:       ci.Quantity,
			UnitPriceCents: product.PriceCents,
			LineTotalCents: product.PriceCents * int64(ci.Quantity),
		})
	}
	return lines, items, nil
}

func (s *service) couponUsed(ctx context.Context, repo *Repository, userID uuid.UUID, couponCode string) (bool, error) {
	code := strings.TrimSpace(couponCode)
	if code == "" {
		return false, nil
	}
	used, err := repo.CouponUsed(ctx, userID, code)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking coupon")
	}
	return used, nil
}

// allocateOrderNumber finds an unused public reference, retrying the random
// suffix a bounded number of times.
func (s *service) allocateOrderNumber(ctx context.Context, repo *Repository, now time.Time) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := newOrderNumber(now)
		exists, err := repo.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate order number")
}

func validateShippingAddress(addr types.ShippingAddress) error {
	missing := addr.FullName == "" || addr.Line1 == "" || addr.City == "" ||
		addr.State == "" || addr.PostalCode == "" || addr.Country == ""
	if missing {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	return nil
}
