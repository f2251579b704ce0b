package controllers

import (
	"net/http"
	"strings"

	"github.com/velvetloom/velvetloom-backend/api/responses"
	"github.com/velvetloom/velvetloom-backend/api/validators"
	"github.com/velvetloom/velvetloom-backend/internal/catalog"
	"github.com/velvetloom/velvetloom-backend/internal/orders"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/logger"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

type productRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=200"`
	Description        string   `json:"description" validate:"omitempty,max=5000"`
	Brand              string   `json:"brand" validate:"required,max=100"`
	Category           string   `json:"category" validate:"required"`
	ClothType          string   `json:"cloth_type" validate:"omitempty,max=100"`
	PriceCents         int64    `json:"price_cents" validate:"required,min=1"`
	OriginalPriceCents *int64   `json:"original_price_cents" validate:"omitempty,min=1"`
	DiscountPercentage int      `json:"discount_percentage" validate:"omitempty,min=0,max=90"`
	Sizes              []string `json:"sizes" validate:"required,min=1,dive,max=10"`
	Images             []string `json:"images" validate:"omitempty,dive,url"`
	CountInStock       int      `json:"count_in_stock" validate:"min=0"`
	IsFeatured         bool     `json:"is_featured"`
}

type productUpdateRequest struct {
	Name               *string   `json:"name" validate:"omitempty,min=2,max=200"`
	Description        *string   `json:"description" validate:"omitempty,max=5000"`
	Brand              *string   `json:"brand" validate:"omitempty,max=100"`
	Category           *string   `json:"category"`
	ClothType          *string   `json:"cloth_type" validate:"omitempty,max=100"`
	PriceCents         *int64    `json:"price_cents" validate:"omitempty,min=1"`
	OriginalPriceCents *int64    `json:"original_price_cents" validate:"omitempty,min=1"`
	DiscountPercentage *int      `json:"discount_percentage" validate:"omitempty,min=0,max=90"`
	Sizes              *[]string `json:"sizes" validate:"omitempty,min=1,dive,max=10"`
	Images             *[]string `json:"images" validate:"omitempty,dive,url"`
	CountInStock       *int      `json:"count_in_stock" validate:"omitempty,min=0"`
	IsFeatured         *bool     `json:"is_featured"`
}

type orderStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	ReturnStatus *string `json:"return_status"`
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
			return
		}

		created, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:               req.Name,
			Description:        req.Description,
			Brand:              req.Brand,
			Category:           category,
			ClothType:          req.ClothType,
			PriceCents:         req.PriceCents,
			OriginalPriceCents: req.OriginalPriceCents,
			DiscountPercentage: req.DiscountPercentage,
			Sizes:              req.Sizes,
			Images:             req.Images,
			CountInStock:       req.CountInStock,
			IsFeatured:         req.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:               req.Name,
			Description:        req.Description,
			Brand:              req.Brand,
			ClothType:          req.ClothType,
			PriceCents:         req.PriceCents,
			OriginalPriceCents: req.OriginalPriceCents,
			DiscountPercentage: req.DiscountPercentage,
			Sizes:              req.Sizes,
			Images:             req.Images,
			CountInStock:       req.CountInStock,
			IsFeatured:         req.IsFeatured,
		}
		if req.Category != nil {
			category, err := enums.ParseProductCategory(*req.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = &category
		}

		updated, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListAll(r.Context(), pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}
		input := orders.UpdateStatusInput{Status: status}
		if req.ReturnStatus != nil && strings.TrimSpace(*req.ReturnStatus) != "" {
			returnStatus, err := enums.ParseReturnStatus(*req.ReturnStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid return status"))
				return
			}
			input.ReturnStatus = &returnStatus
		}

		updated, err := svc.UpdateStatus(r.Context(), ref, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
