package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes: login plus the storefront read surface, which the
		// web client shows before any session exists.
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Get("/products", apiHandler.ListProductsHandler)
		r.Get("/products/{productID}", apiHandler.GetProductHandler)
		r.Post("/products/{productID}/advice", apiHandler.StylingAdviceHandler)
		r.Get("/categories", apiHandler.ListCategoriesHandler)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Cart and checkout
			r.Get("/cart", apiHandler.GetCartHandler)
			r.Post("/cart/items", apiHandler.AddCartItemHandler)
			r.Patch("/cart/items/{productID}", apiHandler.AdjustCartItemHandler)
			r.Delete("/cart/items/{productID}", apiHandler.RemoveCartItemHandler)
			r.Delete("/cart", apiHandler.ClearCartHandler)
			r.Post("/checkout", apiHandler.CheckoutHandler)

			// Own orders
			r.Get("/orders", apiHandler.ListMyOrdersHandler)
			r.Get("/orders/{orderID}/qr", apiHandler.OrderQRHandler)

			// Chat
			r.Get("/chat", apiHandler.GetChatHandler)
			r.Post("/chat/messages", apiHandler.SendChatMessageHandler)
			r.Post("/chat/read", apiHandler.MarkChatReadHandler)
			r.Get("/chat/unread", apiHandler.ChatUnreadHandler)
			r.Get("/chat/ws", apiHandler.ChatFeedHandler)

			// Merchant back-office
			r.Group(func(r chi.Router) {
				r.Use(apiHandler.MerchantOnlyMiddleware)

				r.Get("/chat/conversations", apiHandler.ListConversationsHandler)

				r.Post("/merchant/products", apiHandler.CreateProductHandler)
				r.Put("/merchant/products/{productID}", apiHandler.UpdateProductHandler)
				r.Delete("/merchant/products/{productID}", apiHandler.DeleteProductHandler)

				r.Get("/merchant/orders", apiHandler.ListAllOrdersHandler)
				r.Patch("/merchant/orders/{orderID}/status", apiHandler.UpdateOrderStatusHandler)
				r.Get("/merchant/orders/export", apiHandler.ExportOrdersHandler)

				r.Get("/merchant/dashboard", apiHandler.DashboardHandler)
			})
		})
	})

	return r
}
