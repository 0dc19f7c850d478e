package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/fastfood/config"
	"github.com/ray-remotestate/fastfood/middlewares"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
)

type AccountStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	IsUserExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserDetails(ctx context.Context, id uuid.UUID, name, email, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	AddAddress(ctx context.Context, userID uuid.UUID, addr *models.Address) error
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, m *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	SetMenuItemAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type InventoryStore interface {
	CreateInventoryItem(ctx context.Context, i *models.InventoryItem) error
	GetInventoryItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, i *models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
}

type CouponStore interface {
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, c *models.Coupon) error
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

type ShopStore interface {
	CreateShopOrder(ctx context.Context, o *models.ShopOrder) error
	ListShopOrders(ctx context.Context) ([]models.ShopOrder, error)
	ShopOrdersBetween(ctx context.Context, from, to time.Time) ([]models.ShopOrder, error)
}

// OrderExporter loads every order matching a listing query.
type OrderExporter interface {
	ExportOrders(ctx context.Context, q models.ListQuery) ([]*models.Order, error)
}

// Socket upgrades an authenticated request to a subscription connection.
type Socket interface {
	ServeWS(w http.ResponseWriter, r *http.Request, caller models.Identity)
}

// Handler serves every HTTP endpoint. Each store field is normally the same
// *dbhelper.Store.
type Handler struct {
	Config *config.Config
	Tokens utils.TokenIssuer

	Accounts  AccountStore
	Catalog   CatalogStore
	Stock     InventoryStore
	Coupons   CouponStore
	Shop      ShopStore
	Exporter  OrderExporter
	Socket    Socket
	Orders    *services.OrderService
	Reviews   *services.ReviewService
	Inventory *services.InventoryService
}

// pathID parses a route id. Malformed ids are reported like missing ones.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, utils.ResourceNotFound()
	}
	return id, nil
}

func caller(r *http.Request) models.Identity {
	identity, _ := middlewares.IdentityFrom(r)
	return identity
}

// respondResults emits the listing prepared by middlewares.AdvancedResults.
func respondResults(w http.ResponseWriter, r *http.Request) {
	result, ok := middlewares.AdvancedResultsFrom(r)
	if !ok {
		utils.RespondError(w, utils.BadRequest("listing is not available"))
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func respondCount(w http.ResponseWriter, data any, count int) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
		"data":    data,
	})
}
