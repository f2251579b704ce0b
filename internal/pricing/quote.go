package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
)

const (
	// ConvenienceFeeCents is charged flat on every order.
	ConvenienceFeeCents int64 = 1500
	// ShippingFeeCents applies below the free shipping threshold.
	ShippingFeeCents int64 = 10000
	// FreeShippingThresholdCents compares against the pre-discount subtotal.
	FreeShippingThresholdCents int64 = 100000
)

// Line is one priced cart line at quote time.
type Line struct {
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// Quote is the full price breakdown for a set of lines. The same computation
// backs checkout preview and order placement so the displayed total always
// matches the charged total.
type Quote struct {
	SubtotalCents       int64   `json:"subtotal_cents"`
	DiscountCents       int64   `json:"discount_cents"`
	ConvenienceFeeCents int64   `json:"convenience_fee_cents"`
	ShippingFeeCents    int64   `json:"shipping_fee_cents"`
	TotalCents          int64   `json:"total_cents"`
	CouponCode          *string `json:"coupon_code,omitempty"`
}

// Compute prices the lines. couponUsed reports whether the account already
// redeemed the supplied code; the caller resolves that from storage.
func Compute(lines []Line, couponCode string, couponUsed bool) (*Quote, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var subtotal int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line price cannot be negative")
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}

	quote := &Quote{
		SubtotalCents:       subtotal,
		ConvenienceFeeCents: ConvenienceFeeCents,
	}

	// Shipping compares against the pre-discount subtotal: a coupon cannot
	// push an order under the free shipping threshold.
	if subtotal < FreeShippingThresholdCents {
		quote.ShippingFeeCents = ShippingFeeCents
	}

	code := strings.ToUpper(strings.TrimSpace(couponCode))
	if code != "" {
		pct, ok := LookupCoupon(code)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
		}
		if couponUsed {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already used")
		}
		discount := decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(pct)).
			Div(decimal.NewFromInt(100)).
			Round(0)
		quote.DiscountCents = discount.IntPart()
		quote.CouponCode = &code
	}

	quote.TotalCents = subtotal - quote.DiscountCents + quote.ConvenienceFeeCents + quote.ShippingFeeCents
	return quote, nil
}
