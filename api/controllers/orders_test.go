package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/api/middleware"
	"github.com/velvetloom/velvetloom-backend/internal/orders"
	"github.com/velvetloom/velvetloom-backend/internal/pricing"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

type stubOrderService struct {
	quote *pricing.Quote
	order *orders.OrderDTO
	track *orders.TrackDTO
	list  []orders.OrderDTO
	page  *orders.ListResult
	err   error

	lastUserID  uuid.UUID
	lastIsAdmin bool
	lastRef     string
	lastPlace   orders.PlaceOrderInput
	lastReturn  orders.ReturnRequestInput
	lastStatus  orders.UpdateStatusInput
}

func (s *stubOrderService) PreviewCheckout(ctx context.Context, userID uuid.UUID, couponCode string) (*pricing.Quote, error) {
	s.lastUserID = userID
	return s.quote, s.err
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	s.lastUserID = userID
	s.lastPlace = input
	return s.order, s.err
}

func (s *stubOrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	s.lastUserID = userID
	return s.list, s.err
}

func (s *stubOrderService) GetByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*orders.OrderDTO, error) {
	s.lastUserID = userID
	s.lastIsAdmin = isAdmin
	s.lastRef = ref
	return s.order, s.err
}

func (s *stubOrderService) Track(ctx context.Context, ref string) (*orders.TrackDTO, error) {
	s.lastRef = ref
	return s.track, s.err
}

func (s *stubOrderService) CancelOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*orders.OrderDTO, error) {
	s.lastUserID = userID
	s.lastIsAdmin = isAdmin
	s.lastRef = ref
	return s.order, s.err
}

func (s *stubOrderService) RequestReturn(ctx context.Context, userID uuid.UUID, ref string, input orders.ReturnRequestInput) (*orders.OrderDTO, error) {
	s.lastUserID = userID
	s.lastRef = ref
	s.lastReturn = input
	return s.order, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, ref string, input orders.UpdateStatusInput) (*orders.OrderDTO, error) {
	s.lastRef = ref
	s.lastStatus = input
	return s.order, s.err
}

func (s *stubOrderService) ListAll(ctx context.Context, params pagination.Params) (*orders.ListResult, error) {
	return s.page, s.err
}

func (s *stubOrderService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) error {
	s.lastUserID = userID
	s.lastIsAdmin = isAdmin
	s.lastRef = ref
	return s.err
}

func withOrderRef(req *http.Request, ref string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("orderRef", ref)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestTrackOrderPublic(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubOrderService{track: &orders.TrackDTO{
		OrderNumber: "ORD1700000000000123",
		Status:      enums.OrderStatusShipped,
		Steps: []types.ProjectedStep{
			{Status: string(enums.OrderStatusPlaced), Date: &now, State: types.TrackingStepCompleted},
		},
	}}
	handler := TrackOrder(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/track/ORD1700000000000123", nil)
	req = withOrderRef(req, "ORD1700000000000123")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastRef != "ORD1700000000000123" {
		t.Fatalf("expected ref forwarded got %q", svc.lastRef)
	}

	var envelope struct {
		Data orders.TrackDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "ORD1700000000000123" {
		t.Fatalf("expected order number in payload got %q", envelope.Data.OrderNumber)
	}
}

func TestTrackOrderUnknown(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := TrackOrder(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/track/ORD0000000000000000", nil)
	req = withOrderRef(req, "ORD0000000000000000")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetOrderRequiresAuth(t *testing.T) {
	handler := GetOrder(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD1", nil)
	req = withOrderRef(req, "ORD1")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCancelOrderForwardsIdentity(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{order: &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD42", IsCancelled: true}}
	handler := CancelOrder(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD42/cancel", nil)
	req = asUser(withOrderRef(req, "ORD42"), userID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUserID != userID {
		t.Fatalf("expected user id forwarded got %s", svc.lastUserID)
	}
	if svc.lastRef != "ORD42" {
		t.Fatalf("expected ref forwarded got %q", svc.lastRef)
	}
	if svc.lastIsAdmin {
		t.Fatalf("expected customer call, admin flag set")
	}
}

func TestCancelOrderWindowClosed(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation window has closed")}
	handler := CancelOrder(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD42/cancel", nil)
	req = asUser(withOrderRef(req, "ORD42"), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestRequestReturnValidatesReason(t *testing.T) {
	handler := RequestReturn(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD42/return", bytes.NewReader([]byte(`{"description":"too small"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(withOrderRef(req, "ORD42"), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRequestReturnForwardsInput(t *testing.T) {
	svc := &stubOrderService{order: &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD42"}}
	handler := RequestReturn(svc, nil)

	body := `{"reason":"wrong size","description":"ordered M, need L"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD42/return", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(withOrderRef(req, "ORD42"), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastReturn.Reason != "wrong size" || svc.lastReturn.Description != "ordered M, need L" {
		t.Fatalf("expected return input forwarded got %+v", svc.lastReturn)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc := &stubOrderService{order: &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD42", Status: enums.OrderStatusDelivered}}
	handler := AdminUpdateOrderStatus(svc, nil)

	body := `{"status":"Delivered","return_status":"Approved"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/ORD42/status", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderRef(req, "ORD42")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected status forwarded got %s", svc.lastStatus.Status)
	}
	if svc.lastStatus.ReturnStatus == nil || *svc.lastStatus.ReturnStatus != enums.ReturnStatusApproved {
		t.Fatalf("expected return status forwarded got %+v", svc.lastStatus.ReturnStatus)
	}
}

func TestAdminUpdateOrderStatusRejectsUnknown(t *testing.T) {
	handler := AdminUpdateOrderStatus(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/ORD42/status", bytes.NewReader([]byte(`{"status":"Teleported"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderRef(req, "ORD42")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDeleteOrderForwardsIdentity(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{}
	handler := DeleteOrder(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/ORD42", nil)
	req = asUser(withOrderRef(req, "ORD42"), userID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUserID != userID || svc.lastRef != "ORD42" {
		t.Fatalf("expected identity forwarded got user=%s ref=%q", svc.lastUserID, svc.lastRef)
	}
}
