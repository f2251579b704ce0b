package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

// ItemDTO is one purchased line snapshot.
type ItemDTO struct {
	ProductID      uuid.UUID             `json:"product_id"`
	Name           string                `json:"name"`
	Image          string                `json:"image,omitempty"`
	Size           string                `json:"size"`
	Category       enums.ProductCategory `json:"category"`
	Quantity       int                   `json:"quantity"`
	UnitPriceCents int64                 `json:"unit_price_cents"`
	LineTotalCents int64                 `json:"line_total_cents"`
}

// OrderDTO is the API projection of an order aggregate.
type OrderDTO struct {
	ID                    uuid.UUID             `json:"id"`
	OrderNumber           string                `json:"order_id"`
	Status                enums.OrderStatus     `json:"status"`
	IsCancelled           bool                  `json:"is_cancelled"`
	Items                 []ItemDTO             `json:"items"`
	ItemsSubtotalCents    int64                 `json:"items_subtotal_cents"`
	DiscountCents         int64                 `json:"discount_cents"`
	ShippingFeeCents      int64                 `json:"shipping_fee_cents"`
	ConvenienceFeeCents   int64                 `json:"convenience_fee_cents"`
	TotalCents            int64                 `json:"total_cents"`
	CouponCode            *string               `json:"coupon_code,omitempty"`
	PaymentMethod         enums.PaymentMethod   `json:"payment_method"`
	PaymentStatus         enums.PaymentStatus   `json:"payment_status"`
	PaymentDetails        types.PaymentDetails  `json:"payment_details"`
	ShippingAddress       types.ShippingAddress `json:"shipping_address"`
	TrackingSteps         []types.TrackingStep  `json:"tracking_steps"`
	CancelAllowedUntil    time.Time             `json:"cancel_allowed_until"`
	DeliveredAt           *time.Time            `json:"delivered_at,omitempty"`
	ReturnEligible        bool                  `json:"return_eligible"`
	ReturnStatus          enums.ReturnStatus    `json:"return_status"`
	ReturnReason          *string               `json:"return_reason,omitempty"`
	ReturnDescription     *string               `json:"return_description,omitempty"`
	ReturnWindowExpiresAt *time.Time            `json:"return_window_expires_at,omitempty"`
	ReturnRequestedAt     *time.Time            `json:"return_requested_at,omitempty"`
	ReturnCompletedAt     *time.Time            `json:"return_completed_at,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
}

// TrackDTO is the public tracking response.
type TrackDTO struct {
	OrderNumber string                `json:"order_id"`
	Status      enums.OrderStatus     `json:"status"`
	IsCancelled bool                  `json:"is_cancelled"`
	Steps       []types.ProjectedStep `json:"steps"`
}

// ListResult is one page of admin order results.
type ListResult struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

func toOrderDTO(order *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, ItemDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Size:           item.Size,
			Category:       item.Category,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return OrderDTO{
		ID:                    order.ID,
		OrderNumber:           order.OrderID,
		Status:                order.Status,
		IsCancelled:           order.IsCancelled,
		Items:                 items,
		ItemsSubtotalCents:    order.ItemsSubtotalCents,
		DiscountCents:         order.DiscountCents,
		ShippingFeeCents:      order.ShippingFeeCents,
		ConvenienceFeeCents:   order.ConvenienceFeeCents,
		TotalCents:            order.TotalCents,
		CouponCode:            order.CouponCode,
		PaymentMethod:         order.PaymentMethod,
		PaymentStatus:         order.PaymentStatus,
		PaymentDetails:        order.PaymentDetails,
		ShippingAddress:       order.ShippingAddress,
		TrackingSteps:         order.TrackingSteps,
		CancelAllowedUntil:    order.CancelAllowedUntil,
		DeliveredAt:           order.DeliveredAt,
		ReturnEligible:        order.ReturnEligible,
		ReturnStatus:          order.ReturnStatus,
		ReturnReason:          order.ReturnReason,
		ReturnDescription:     order.ReturnDescription,
		ReturnWindowExpiresAt: order.ReturnWindowExpiresAt,
		ReturnRequestedAt:     order.ReturnRequestedAt,
		ReturnCompletedAt:     order.ReturnCompletedAt,
		CreatedAt:             order.CreatedAt,
	}
}
