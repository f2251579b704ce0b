package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velvetloom/velvetloom-backend/internal/address"
	authsvc "github.com/velvetloom/velvetloom-backend/internal/auth"
	"github.com/velvetloom/velvetloom-backend/internal/cart"
	"github.com/velvetloom/velvetloom-backend/internal/catalog"
	"github.com/velvetloom/velvetloom-backend/internal/orders"
	"github.com/velvetloom/velvetloom-backend/internal/pricing"
	"github.com/velvetloom/velvetloom-backend/internal/users"
	pkgAuth "github.com/velvetloom/velvetloom-backend/pkg/auth"
	"github.com/velvetloom/velvetloom-backend/pkg/config"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/logger"
	"github.com/velvetloom/velvetloom-backend/pkg/pagination"
)

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) AdminLogin(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req authsvc.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.ProductDetailDTO, error) {
	return &catalog.ProductDetailDTO{}, nil
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: productID}, nil
}

func (stubCatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubCatalogService) AddReview(ctx context.Context, productID, userID uuid.UUID, authorName string, input catalog.ReviewInput) (*catalog.ReviewDTO, error) {
	return &catalog.ReviewDTO{}, nil
}

func (stubCatalogService) UpdateReview(ctx context.Context, productID, userID uuid.UUID, input catalog.ReviewInput) (*catalog.ReviewDTO, error) {
	return &catalog.ReviewDTO{}, nil
}

func (stubCatalogService) DeleteReview(ctx context.Context, productID, userID uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, input cart.UpdateQuantityInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, size string) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) PreviewCheckout(ctx context.Context, userID uuid.UUID, couponCode string) (*pricing.Quote, error) {
	return &pricing.Quote{}, nil
}

func (stubOrdersService) PlaceOrder(ctx context.Context, userID uuid.UUID, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

func (stubOrdersService) ListByUser(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrdersService) GetByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{OrderNumber: ref}, nil
}

func (stubOrdersService) Track(ctx context.Context, ref string) (*orders.TrackDTO, error) {
	return &orders.TrackDTO{OrderNumber: ref, Status: enums.OrderStatusPlaced}, nil
}

func (stubOrdersService) CancelOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{OrderNumber: ref, IsCancelled: true}, nil
}

func (stubOrdersService) RequestReturn(ctx context.Context, userID uuid.UUID, ref string, input orders.ReturnRequestInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{OrderNumber: ref}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, ref string, input orders.UpdateStatusInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{OrderNumber: ref, Status: input.Status}, nil
}

func (stubOrdersService) ListAll(ctx context.Context, params pagination.Params) (*orders.ListResult, error) {
	return &orders.ListResult{}, nil
}

func (stubOrdersService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (stubWishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (stubWishlistService) List(ctx context.Context, userID uuid.UUID) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

type stubAddressService struct{}

func (stubAddressService) Create(ctx context.Context, userID uuid.UUID, input address.Input) (*address.DTO, error) {
	return &address.DTO{}, nil
}

func (stubAddressService) List(ctx context.Context, userID uuid.UUID) ([]address.DTO, error) {
	return []address.DTO{}, nil
}

func (stubAddressService) Get(ctx context.Context, userID, id uuid.UUID) (*address.DTO, error) {
	return &address.DTO{}, nil
}

func (stubAddressService) Update(ctx context.Context, userID, id uuid.UUID, input address.Input) (*address.DTO, error) {
	return &address.DTO{}, nil
}

func (stubAddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (stubAddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*address.DTO, error) {
	return &address.DTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "velvetloom-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Auth:      stubAuthService{},
		Catalog:   stubCatalogService{},
		Cart:      stubCartService{},
		Orders:    stubOrdersService{},
		Wishlist:  stubWishlistService{},
		Addresses: stubAddressService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, isAdmin bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:  uuid.New(),
		Name:    "Router Test",
		IsAdmin: isAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-VelvetLoom-Env"); got != "test" {
		t.Fatalf("expected env header got %q", got)
	}
}

func TestPublicCatalogAndTracking(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/products", "/api/v1/track/ORD1700000000000123"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/wishlist", "/api/v1/addresses", "/api/v1/me"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, resp.Code)
		}
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminFlag(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
