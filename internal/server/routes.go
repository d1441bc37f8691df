// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/config"
	"github.com/artifactlab/artifact-service/internal/handler"
	"github.com/artifactlab/artifact-service/internal/middleware"
	"github.com/artifactlab/artifact-service/internal/service"
	"github.com/artifactlab/artifact-service/internal/storage"
)

// Deps are the wired dependencies the routes need. Analyzer is nil when the
// Gemini credential is missing — the report handler then answers analysis
// requests with a configuration error instead of crashing.
type Deps struct {
	Analyzer *service.Analyzer
	CallRepo storage.AnalysisCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	reportHandler := handler.NewReportHandler(deps.Analyzer, cfg.Server.MaxUploadBytes(), logger)
	adminHandler := handler.NewAdminHandler(deps.CallRepo, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// CORS applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Authenticated API endpoints
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.POST("/reports", reportHandler.Analyze)
		authed.GET("/models", reportHandler.Models)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
