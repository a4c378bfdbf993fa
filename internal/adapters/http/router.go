package http

import (
	"log/slog"
	"net/http"
)

// NewRouter creates the HTTP router with all routes
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /metrics", h.Metrics)

	// Account
	mux.HandleFunc("POST /register", h.Register)

	// Products
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /products", h.AddProduct)
	mux.HandleFunc("DELETE /products/{name}", h.RemoveProduct)
	mux.HandleFunc("GET /products/{name}/history", h.GetHistory)

	// Updates
	mux.HandleFunc("POST /updates", h.UpdatePrices)

	// Apply middleware chain (order matters: outer -> inner)
	var handler http.Handler = mux
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)

	return handler
}
