package main

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/Karineprates/FinanceAI/pkg/middleware"
)

// buildRouter assembles the API routes with the middleware chain.
func buildRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, path string, h http.HandlerFunc) {
		mux.Handle(pattern, deps.Metrics.Middleware(path, h))
	}

	route("GET /v1/transactions", "/v1/transactions", deps.TransactionHandler.List)
	route("POST /v1/transactions", "/v1/transactions", deps.TransactionHandler.Create)
	route("DELETE /v1/transactions/{id}", "/v1/transactions/{id}", deps.TransactionHandler.Delete)
	route("GET /v1/transactions/search", "/v1/transactions/search", deps.TransactionHandler.Search)
	route("GET /v1/stats", "/v1/stats", deps.TransactionHandler.Stats)
	route("GET /v1/insights", "/v1/insights", deps.InsightsHandler.Get)
	route("POST /v1/import", "/v1/import", deps.ImportHandler.Import)
	route("GET /v1/export", "/v1/export", deps.TransactionHandler.Export)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = mux
	handler = middleware.RateLimit(deps.Config.Server.RateLimitPerSecond, deps.Config.Server.RateLimitBurst)(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)
	handler = middleware.Logger(deps.Logger)(handler)
	handler = middleware.Recovery(deps.Logger)(handler)

	return handler
}
