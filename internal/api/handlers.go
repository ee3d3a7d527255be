package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jinxiu-shop/storefront/internal/auth"
	"github.com/jinxiu-shop/storefront/internal/config"
	"github.com/jinxiu-shop/storefront/internal/core"
	"github.com/jinxiu-shop/storefront/internal/export"
	"github.com/jinxiu-shop/storefront/internal/store"
	qrcode "github.com/skip2/go-qrcode"
)

type contextKey string

const userContextKey contextKey = "user"

type APIHandler struct {
	users   *core.UserService
	catalog *core.CatalogService
	carts   *core.CartService
	orders  *core.OrderService
	stats   *core.StatsService
	chat    *core.ChatService
	stylist core.StylingAdvisor

	feed *chatFeed
}

func NewAPIHandler(
	users *core.UserService,
	catalog *core.CatalogService,
	carts *core.CartService,
	orders *core.OrderService,
	stats *core.StatsService,
	chat *core.ChatService,
	stylist core.StylingAdvisor,
	snapshots *store.SnapshotStore,
) *APIHandler {
	h := &APIHandler{
		users:   users,
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		stats:   stats,
		chat:    chat,
		stylist: stylist,
		feed:    newChatFeed(),
	}
	// Any replacement of the chats snapshot, whichever side wrote it, is
	// pushed to every connected feed client.
	snapshots.Subscribe(store.KeyChats, h.feed.broadcast)
	return h
}

func currentUser(r *http.Request) store.User {
	user, _ := r.Context().Value(userContextKey).(store.User)
	return user
}

// JWTAuthMiddleware resolves the session user from the Authorization header
// (or a token query parameter, for websocket clients that cannot set
// headers) and stores it on the request context.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}
		if tokenString == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		user, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MerchantOnlyMiddleware is the API analog of the merchant route guard:
// non-merchant sessions are turned away instead of redirected.
func (h *APIHandler) MerchantOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r).Role != store.RoleMerchant {
			http.Error(w, "Merchant role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type LoginRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Role     store.UserRole `json:"role"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// LoginHandler simulates the login round trip: a configurable delay, then a
// fabricated user for the selected role. The password is accepted but never
// checked; this is a demo shop.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	role := req.Role
	if role != store.RoleMerchant {
		role = store.RoleUser
	}

	time.Sleep(time.Duration(config.AppConfig.LoginDelayMs) * time.Millisecond)

	user := h.users.Login(req.Email, role)
	token, err := auth.GenerateJWT(user)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", user.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(LoginResponse{Token: token, User: user})
}

func (h *APIHandler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	json.NewEncoder(w).Encode(h.catalog.List(search, category))
}

func (h *APIHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.catalog.Categories())
}

func (h *APIHandler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product := h.catalog.Get(chi.URLParam(r, "productID"))
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(product)
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}

// StylingAdviceHandler asks the advisor for outfit advice on one product.
// The advisor never fails; at worst the advice is its fallback text.
func (h *APIHandler) StylingAdviceHandler(w http.ResponseWriter, r *http.Request) {
	product := h.catalog.Get(chi.URLParam(r, "productID"))
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	advice := h.stylist.GetStylingAdvice(r.Context(), product.Name, product.Description)
	json.NewEncoder(w).Encode(AdviceResponse{Advice: advice})
}

type CreateProductRequest struct {
	store.Product
}

func (h *APIHandler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}

	product := h.catalog.Add(req.Product)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

func (h *APIHandler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	req.ID = chi.URLParam(r, "productID")
	if !h.catalog.Update(req.Product) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(req.Product)
}

func (h *APIHandler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	h.catalog.Delete(chi.URLParam(r, "productID"))
	w.WriteHeader(http.StatusNoContent)
}

type CartResponse struct {
	Items  []store.CartItem `json:"items"`
	Totals core.CartTotals  `json:"totals"`
}

func (h *APIHandler) cartResponse(userID string) CartResponse {
	return CartResponse{
		Items:  h.carts.Items(userID),
		Totals: h.carts.Totals(userID),
	}
}

func (h *APIHandler) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.cartResponse(currentUser(r).ID))
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *APIHandler) AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	product := h.catalog.Get(req.ProductID)
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	user := currentUser(r)
	h.carts.Add(user.ID, *product)
	json.NewEncoder(w).Encode(h.cartResponse(user.ID))
}

type AdjustCartItemRequest struct {
	Delta int `json:"delta"`
}

func (h *APIHandler) AdjustCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AdjustCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user := currentUser(r)
	h.carts.AdjustQuantity(user.ID, chi.URLParam(r, "productID"), req.Delta)
	json.NewEncoder(w).Encode(h.cartResponse(user.ID))
}

func (h *APIHandler) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	h.carts.Remove(user.ID, chi.URLParam(r, "productID"))
	json.NewEncoder(w).Encode(h.cartResponse(user.ID))
}

func (h *APIHandler) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(currentUser(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

// CheckoutHandler runs the simulated payment delay and turns the cart into
// a pending order.
func (h *APIHandler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	time.Sleep(time.Duration(config.AppConfig.CheckoutDelayMs) * time.Millisecond)

	order := h.orders.Checkout(user)
	if order == nil {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *APIHandler) ListMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.orders.ListByUser(currentUser(r).ID))
}

// OrderQRHandler serves a QR code for the order id, the demo stand-in for a
// payment/track-package code.
func (h *APIHandler) OrderQRHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	order := h.orders.Get(chi.URLParam(r, "orderID"))
	if order == nil || (user.Role != store.RoleMerchant && order.UserID != user.ID) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode("jinxiu://order/"+order.ID, qrcode.Medium, 256)
	if err != nil {
		log.Printf("Error encoding QR for order %s: %v", order.ID, err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *APIHandler) ListAllOrdersHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.orders.ListAll())
}

type UpdateOrderStatusRequest struct {
	Status store.OrderStatus `json:"status"`
}

func (h *APIHandler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if !h.orders.UpdateStatus(orderID, req.Status) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(h.orders.Get(orderID))
}

func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.stats.Dashboard())
}

func (h *APIHandler) ExportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)

	if err := export.WriteOrdersReport(w, h.orders.ListAll()); err != nil {
		log.Printf("Error exporting orders report: %v", err)
	}
}
