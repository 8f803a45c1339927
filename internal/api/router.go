package api

import (
	"log/slog"
	"net/http"
	"time"

	"consultancy-ledger/internal/api/handler"
	mw "consultancy-ledger/internal/api/middleware"
	"consultancy-ledger/internal/config"
	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/domain/ledger"

	_ "consultancy-ledger/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/redis/go-redis/v9"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(
	ledgerService ledger.LedgerService,
	customerService customer.CustomerService,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, logger)
	setupLedgerRoutes(router, ledgerService, cfg, logger)
	setupCatalogRoutes(router, ledgerService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/contact", h.UpdateContactDetails)
		})
	})
}

func setupLedgerRoutes(router *chi.Mux, ledgerService ledger.LedgerService, cfg *config.Config, logger *slog.Logger) {
	ledgerHandler := handler.NewLedgerHandler(ledgerService, logger)
	statementHandler := handler.NewStatementHandler(ledgerService, logger)

	router.Route("/customers/{customerID}/charges", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", ledgerHandler.AddCharge)
		r.Get("/", ledgerHandler.ListCharges)
		r.Post("/delete", ledgerHandler.DeleteCharges)
	})

	router.Route("/customers/{customerID}/payments", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", ledgerHandler.RecordPayment)
		r.Get("/", ledgerHandler.ListPayments)
	})

	router.Route("/customers/{customerID}/ledger", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", ledgerHandler.GetLedger)
	})

	router.Route("/customers/{customerID}/statement", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", statementHandler.GetStatement)
		r.Get("/export", statementHandler.ExportStatement)
	})

	router.Route("/charges", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Delete("/{chargeID}", ledgerHandler.DeleteCharge)
	})
}

func setupCatalogRoutes(router *chi.Mux, ledgerService ledger.LedgerService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewCatalogHandler(ledgerService, logger)

	router.Route("/catalog", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListCatalog)
		r.Post("/", h.CreateCatalogEntry)
		r.Put("/{entryID}", h.UpdateCatalogEntry)
	})
}
