package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"challan-service/internal/catalog"
	"challan-service/internal/challan"
	"challan-service/internal/handler"
	mid "challan-service/internal/middleware"
	"challan-service/internal/model"
	"challan-service/internal/party"
	"challan-service/pkg/config"
	"challan-service/pkg/database"
	"challan-service/pkg/jwtutil"
	"challan-service/pkg/logger"
	"challan-service/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("challan-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting challan-service", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database; the handle is owned here and injected into the
	// stores, never held in a package-level variable.
	db, err := database.Open(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db,
		&model.CatalogItem{},
		&model.DraftChallan{},
		&model.DraftChallanItem{},
		&model.Party{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire stores and handlers
	parties := party.NewDirectory(db)
	catalogStore := catalog.NewStore(db, log)
	challanStore := challan.NewStore(db, parties, log)
	itemStore := challan.NewItemStore(db, catalogStore, parties, log)

	catalogHandler := handler.NewCatalogHandler(catalogStore)
	challanHandler := handler.NewChallanHandler(challanStore)
	itemHandler := handler.NewChallanItemHandler(itemStore)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Catalog item routes
	catalogAPI := e.Group("/api/catalog-items", mid.AuthMiddleware)
	catalogAPI.GET("", catalogHandler.List)
	catalogAPI.GET("/:id", catalogHandler.Get)
	catalogAPI.POST("", catalogHandler.Create)
	catalogAPI.PUT("/:id", catalogHandler.Update)
	catalogAPI.DELETE("/:id", catalogHandler.Delete)

	// Draft challan routes
	challanAPI := e.Group("/api/draft-challans", mid.AuthMiddleware)
	challanAPI.GET("", challanHandler.List)
	challanAPI.GET("/:id", challanHandler.Get)
	challanAPI.POST("", challanHandler.Create)
	challanAPI.PUT("/:id", challanHandler.Update)
	challanAPI.DELETE("/:id", challanHandler.Delete)

	// Draft challan line-item routes
	itemAPI := e.Group("/api/draft-challan-items", mid.AuthMiddleware)
	itemAPI.GET("", itemHandler.List)
	itemAPI.GET("/:id", itemHandler.Get)
	itemAPI.POST("", itemHandler.CreateBatch)
	itemAPI.PUT("", itemHandler.UpdateBatch)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
