package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reprasp/internal/config"
	"reprasp/internal/models"
)

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(cfg config.ServerConfig, h *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RequestID())
	r.Use(Recovery(logger))
	r.Use(Logger(logger))
	if c, ok := corsConfig(cfg.CORS.AllowOrigins); ok {
		r.Use(cors.New(c))
	}

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(RateLimit(NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}
	{
		schedule := api.Group("/schedule")
		{
			schedule.GET("/list", h.ListSchedule)
			schedule.POST("/add", h.SubmitChange(models.ActionAdd, false))
			schedule.POST("/delete", h.SubmitChange(models.ActionDelete, true))
			schedule.GET("/export", h.ExportSchedule)
		}

		api.GET("/admin/check", h.CheckAdmin)

		requests := api.Group("/requests")
		{
			requests.GET("/list", h.ListRequests)
			requests.POST("/:id/approve", h.Decide(true))
			requests.POST("/:id/reject", h.Decide(false))
		}
	}

	return r
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", userIDHeader, requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
