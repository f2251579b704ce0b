package controllers

import (
	"net/http"

	"github.com/velvetloom/velvetloom-backend/api/responses"
	"github.com/velvetloom/velvetloom-backend/api/validators"
	"github.com/velvetloom/velvetloom-backend/internal/orders"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/logger"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

type previewRequest struct {
	CouponCode string `json:"coupon_code" validate:"omitempty,max=40"`
}

type checkoutRequest struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   string                `json:"payment_method" validate:"omitempty,max=20"`
	PaymentDetails  types.PaymentDetails  `json:"payment_details"`
	CouponCode      string                `json:"coupon_code" validate:"omitempty,max=40"`
}

// PreviewCheckout prices the current cart without placing an order.
func PreviewCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req previewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.PreviewCheckout(r.Context(), userID, req.CouponCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// Checkout turns the cart into an order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.PlaceOrderInput{
			ShippingAddress: req.ShippingAddress,
			PaymentDetails:  req.PaymentDetails,
			CouponCode:      req.CouponCode,
		}
		if req.PaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(req.PaymentMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
				return
			}
			input.PaymentMethod = method
		}

		order, err := svc.PlaceOrder(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
