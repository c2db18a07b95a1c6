package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/stock-market-api/internal/api/handlers"
	custommiddleware "github.com/ndewijer/stock-market-api/internal/api/middleware"
	"github.com/ndewijer/stock-market-api/internal/config"
	"github.com/ndewijer/stock-market-api/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(stockService *service.StockService, systemService *service.SystemService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	stockHandler := handlers.NewStockHandler(stockService)
	r.Get("/data", stockHandler.Data)
	r.Get("/trade_codes", stockHandler.TradeCodes)
	r.Post("/add", stockHandler.Add)
	r.Post("/update", stockHandler.Update)
	r.Delete("/delete", stockHandler.Delete)

	systemHandler := handlers.NewSystemHandler(systemService)
	r.Get("/health", systemHandler.Health)

	return r
}
