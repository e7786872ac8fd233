package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// Authentication is applied per route: public catalogue reads stay open,
// order and cart routes require a user, mutating catalogue and order-status
// routes require an admin.
func New(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	orderHandler *handler.OrderHandler,
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	resolver middleware.UserResolver,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Authenticate(resolver, logger)
	admin := func(h http.Handler) http.Handler {
		return authed(middleware.RequireAdmin(logger)(h))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /api/user/me", authed(http.HandlerFunc(authHandler.Me)))

	// Categories
	mux.HandleFunc("GET /api/categories", categoryHandler.List)
	mux.Handle("POST /api/categories", admin(http.HandlerFunc(categoryHandler.Create)))

	// Products. The literal /api/products/admin route wins over the
	// {slug} wildcard.
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.Handle("GET /api/products/admin", admin(http.HandlerFunc(productHandler.ListAdmin)))
	mux.HandleFunc("GET /api/products/{slug}", productHandler.GetBySlug)
	mux.Handle("POST /api/products", admin(http.HandlerFunc(productHandler.Create)))
	mux.Handle("PUT /api/products/{id}", admin(http.HandlerFunc(productHandler.Update)))
	mux.Handle("PATCH /api/products/{id}/stock", admin(http.HandlerFunc(productHandler.SetStock)))
	mux.Handle("PATCH /api/products/{id}/toggle", admin(http.HandlerFunc(productHandler.ToggleActive)))

	// Orders
	mux.Handle("GET /api/orders", admin(http.HandlerFunc(orderHandler.ListAll)))
	mux.Handle("POST /api/orders/checkout", authed(http.HandlerFunc(orderHandler.Checkout)))
	mux.Handle("GET /api/orders/my", authed(http.HandlerFunc(orderHandler.ListMine)))
	mux.Handle("GET /api/orders/{id}", authed(http.HandlerFunc(orderHandler.GetByID)))
	mux.Handle("PATCH /api/orders/{id}/status", admin(http.HandlerFunc(orderHandler.UpdateStatus)))

	// Cart
	mux.Handle("GET /api/cart", authed(http.HandlerFunc(cartHandler.Get)))
	mux.Handle("DELETE /api/cart", authed(http.HandlerFunc(cartHandler.Clear)))
	mux.Handle("POST /api/cart/items", authed(http.HandlerFunc(cartHandler.AddItem)))
	mux.Handle("PATCH /api/cart/items/{productId}", authed(http.HandlerFunc(cartHandler.UpdateItem)))
	mux.Handle("DELETE /api/cart/items/{productId}", authed(http.HandlerFunc(cartHandler.RemoveItem)))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
