package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gcec-dev/feedesk-api/internal/handler"
	"github.com/gcec-dev/feedesk-api/internal/middleware"
	"github.com/gcec-dev/feedesk-api/internal/repository"
	"github.com/gcec-dev/feedesk-api/internal/service"
	"github.com/gcec-dev/feedesk-api/internal/upstream"
	"github.com/gcec-dev/feedesk-api/pkg/cache"
	"github.com/gcec-dev/feedesk-api/pkg/config"
	"github.com/gcec-dev/feedesk-api/pkg/export"
	"github.com/gcec-dev/feedesk-api/pkg/logger"
	corsmiddleware "github.com/gcec-dev/feedesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gcec-dev/feedesk-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	sessionRepo := repository.NewSessionRepository(cfg.Sessions.TTL)
	metricsSvc := service.NewMetricsService(sessionRepo.Len)

	var catalogCache *repository.CatalogCache
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			catalogCache = repository.NewCatalogCache(redisClient, logr)
		}
	}

	upstreamClient := upstream.New(cfg.Upstream, logr, metricsSvc)
	validate := validator.New()

	catalogSvc := service.NewCatalogService(upstreamClient, nil, cfg.Catalog.CacheTTL, metricsSvc, logr)
	if catalogCache != nil {
		catalogSvc = service.NewCatalogService(upstreamClient, catalogCache, cfg.Catalog.CacheTTL, metricsSvc, logr)
	}
	sessionSvc := service.NewSessionService(sessionRepo, upstreamClient, validate, logr, cfg.Ledger.ConfirmedDelete)
	receiptSvc := service.NewReceiptService(sessionRepo, export.NewReceiptExporter(), cfg.Receipts, logr)

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, receiptSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		catalog := api.Group("/catalog")
		catalog.GET("/academic-years", catalogHandler.AcademicYears)
		catalog.GET("/grades", catalogHandler.Grades)
		catalog.GET("/fees", catalogHandler.Fees)

		sessions := api.Group("/sessions")
		sessions.POST("", sessionHandler.Open)
		sessions.GET("/:id/grid", sessionHandler.Grid)
		sessions.POST("/:id/cell", sessionHandler.SelectCell)
		sessions.PUT("/:id/entry", sessionHandler.Save)
		sessions.DELETE("/:id/entry", sessionHandler.DeleteEntry)
		sessions.POST("/:id/receipt", sessionHandler.Print)
		sessions.GET("/:id/receipt", sessionHandler.Receipt)
		sessions.POST("/:id/close", sessionHandler.Close)
		sessions.DELETE("/:id", sessionHandler.End)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
