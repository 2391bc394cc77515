package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/tinnitus-helper/internal/interfaces"
)

type RouterConfig struct {
	Reports  interfaces.ReportServiceInterface
	APIToken string
	// CORSOrigins lists browser origins allowed to call the API, e.g. a
	// hosted chart renderer. Empty disables CORS handling.
	CORSOrigins []string
	Ping        func(ctx context.Context) error
	Logger      *slog.Logger
}

// NewRouter wires middleware and routes. Everything under /api needs the
// bearer token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	health := NewHealthHandler(cfg.Ping)
	r.GET("/healthcheck", health.HealthCheck)

	reports := NewReportHandler(cfg.Reports)
	api := r.Group("/api")
	api.Use(RequireToken(cfg.APIToken))
	{
		api.GET("/patients/:id/report", reports.GetReport)
		api.GET("/patients/:id/reports", reports.GetReports)
	}

	return r
}
