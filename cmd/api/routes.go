package main

import (
	"log"
	"net/http"

	"cashup/internal/domain/user"
	httphandlers "cashup/internal/interfaces/http"
	"cashup/internal/shared/config"
	"cashup/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)

	// Protected routes. Each endpoint declares the minimum role it needs.
	authMiddleware := middleware.Auth(deps.JWT)
	viewer := middleware.RequireRole(user.RoleViewer)
	finance := middleware.RequireRole(user.RoleFinance)
	admin := middleware.RequireRole(user.RoleAdmin)

	protect := func(role func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return authMiddleware(role(h))
	}

	mux.Handle("/api/auth/register", protect(admin, deps.AuthHandler.HandleRegister))

	mux.Handle("POST /api/transactions", protect(finance, deps.TransactionHandler.HandleTransactions))
	mux.Handle("GET /api/transactions", protect(viewer, deps.TransactionHandler.HandleTransactions))
	mux.Handle("/api/transactions/{id}", protect(viewer, deps.TransactionHandler.HandleTransactionByID))

	mux.Handle("POST /api/titles", protect(finance, deps.TitleHandler.HandleTitles))
	mux.Handle("GET /api/titles", protect(viewer, deps.TitleHandler.HandleTitles))
	mux.Handle("/api/titles/{id}/settle", protect(finance, deps.TitleHandler.HandleSettle))

	mux.Handle("/api/reconciliation/import", protect(finance, deps.ReconciliationHandler.HandleImport))
	mux.Handle("/api/reconciliation/items", protect(viewer, deps.ReconciliationHandler.HandleListItems))
	mux.Handle("/api/reconciliation/items/{id}/status", protect(finance, deps.ReconciliationHandler.HandleItemStatus))
	mux.Handle("/api/reconciliation/rematch", protect(finance, deps.ReconciliationHandler.HandleRematch))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(mux))
	handler = middleware.Tracing(handler)

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
