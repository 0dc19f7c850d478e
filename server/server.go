package server

import (
	"context"
	"io"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/fastfood/database/dbhelper"
	"github.com/ray-remotestate/fastfood/handlers"
	"github.com/ray-remotestate/fastfood/middlewares"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

type middleware = func(http.Handler) http.Handler

// with wraps f so that mws run in the order given.
func with(f http.HandlerFunc, mws ...middleware) http.Handler {
	var h http.Handler = f
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func SetupRoutes(h *handlers.Handler, store *dbhelper.Store) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	auth := middlewares.Authenticate(store, h.Tokens)
	admin := middlewares.Authorize(models.RoleAdmin)
	staff := middlewares.Authorize(models.RoleAdmin, models.RoleStaff)
	list := func(c *dbhelper.Collection, opts ...middlewares.ResultsOption) middleware {
		return middlewares.AdvancedResults(store.DB, c, opts...)
	}

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/auth/register", h.Register).Methods("POST")
	v1.HandleFunc("/auth/login", h.Login).Methods("POST")
	v1.Handle("/auth/logout", with(h.Logout, auth)).Methods("GET", "POST")
	v1.Handle("/auth/me", with(h.Me, auth)).Methods("GET")
	v1.Handle("/auth/updatedetails", with(h.UpdateDetails, auth)).Methods("PUT")
	v1.Handle("/auth/updatepassword", with(h.UpdatePassword, auth)).Methods("PUT")
	v1.Handle("/auth/address", with(h.AddAddress, auth)).Methods("POST")

	v1.Handle("/categories", with(h.ListCategories, list(dbhelper.Categories))).Methods("GET")
	v1.Handle("/categories", with(h.CreateCategory, auth, admin)).Methods("POST")
	v1.HandleFunc("/categories/{id}", h.GetCategory).Methods("GET")
	v1.Handle("/categories/{id}", with(h.UpdateCategory, auth, admin)).Methods("PUT")
	v1.Handle("/categories/{id}", with(h.DeleteCategory, auth, admin)).Methods("DELETE")

	v1.Handle("/menu", with(h.ListMenu, list(dbhelper.Menu, middlewares.Expand("category")))).Methods("GET")
	v1.Handle("/menu", with(h.CreateMenuItem, auth, admin)).Methods("POST")
	v1.HandleFunc("/menu/{id}", h.GetMenuItem).Methods("GET")
	v1.Handle("/menu/{id}", with(h.UpdateMenuItem, auth, admin)).Methods("PUT")
	v1.Handle("/menu/{id}", with(h.DeleteMenuItem, auth, admin)).Methods("DELETE")
	v1.Handle("/menu/{id}/availability", with(h.UpdateAvailability, auth, staff)).Methods("PUT")
	v1.Handle("/menu/{menuItemId}/reviews", with(h.ListReviews,
		list(dbhelper.Reviews, middlewares.ScopeToVar("menuItemId", "menuItem"), middlewares.Expand("user")))).Methods("GET")
	v1.Handle("/menu/{menuItemId}/reviews", with(h.AddReview, auth)).Methods("POST")

	// fixed paths before /orders/{id}
	v1.Handle("/orders", with(h.ListOrders, auth, staff, list(dbhelper.Orders, middlewares.Expand("user")))).Methods("GET")
	v1.Handle("/orders", with(h.CreateOrder, auth)).Methods("POST")
	v1.Handle("/orders/myorders", with(h.MyOrders, auth)).Methods("GET")
	v1.Handle("/orders/export", with(h.ExportOrders, auth, admin)).Methods("GET")
	v1.Handle("/orders/{id}", with(h.GetOrder, auth)).Methods("GET")
	v1.Handle("/orders/{id}/status", with(h.UpdateOrderStatus, auth, staff)).Methods("PUT")
	v1.Handle("/orders/{id}/payment", with(h.UpdatePayment, auth, staff)).Methods("PUT")

	v1.Handle("/reviews", with(h.ListReviews, list(dbhelper.Reviews, middlewares.Expand("user")))).Methods("GET")
	v1.HandleFunc("/reviews/{id}", h.GetReview).Methods("GET")
	v1.Handle("/reviews/{id}", with(h.UpdateReview, auth)).Methods("PUT")
	v1.Handle("/reviews/{id}", with(h.DeleteReview, auth)).Methods("DELETE")

	v1.Handle("/inventory", with(h.ListInventory, auth, staff, list(dbhelper.Inventory))).Methods("GET")
	v1.Handle("/inventory", with(h.CreateInventoryItem, auth, staff)).Methods("POST")
	v1.Handle("/inventory/lowstock", with(h.LowStock, auth, staff)).Methods("GET")
	v1.Handle("/inventory/{id}", with(h.GetInventoryItem, auth, staff)).Methods("GET")
	v1.Handle("/inventory/{id}", with(h.UpdateInventoryItem, auth, staff)).Methods("PUT")
	v1.Handle("/inventory/{id}", with(h.DeleteInventoryItem, auth, admin)).Methods("DELETE")
	v1.Handle("/inventory/{id}/stock", with(h.UpdateStock, auth, staff)).Methods("PUT")

	v1.Handle("/coupons", with(h.ListCoupons, auth, admin, list(dbhelper.Coupons))).Methods("GET")
	v1.Handle("/coupons", with(h.CreateCoupon, auth, admin)).Methods("POST")
	v1.Handle("/coupons/{id}", with(h.GetCoupon, auth, admin)).Methods("GET")
	v1.Handle("/coupons/{id}", with(h.UpdateCoupon, auth, admin)).Methods("PUT")
	v1.Handle("/coupons/{id}", with(h.DeleteCoupon, auth, admin)).Methods("DELETE")

	v1.Handle("/ws", with(h.ServeWS, auth)).Methods("GET")

	shop := router.PathPrefix("/api/shop").Subrouter()
	shop.HandleFunc("/create-payment-intent", h.CreatePaymentIntent).Methods("POST")
	shop.HandleFunc("/orders", h.ListShopOrders).Methods("GET")
	shop.HandleFunc("/orders/by-date", h.ShopOrdersByDate).Methods("GET")

	return &Server{
		Router: router,
	}
}

// Handler wraps the router with panic recovery and CORS for clientURL.
func (svr *Server) Handler(clientURL string) http.Handler {
	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(logrus.StandardLogger()),
		gorillahandlers.PrintRecoveryStack(true),
	)
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{clientURL}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillahandlers.AllowCredentials(),
	)
	return cors(recovery(svr.Router))
}

func (svr *Server) Run(port, clientURL string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Handler(clientURL),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
