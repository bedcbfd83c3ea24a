package router

import (
	"github.com/gin-gonic/gin"

	"ladex/internal/handler"
	"ladex/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// historyH may be nil when the history store is disabled; the history
// routes are then not registered.
func Setup(
	extractH *handler.ExtractHandler,
	historyH *handler.HistoryHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/extract", extractH.Extract)
	v1.GET("/capabilities", extractH.Capabilities)

	if historyH != nil {
		extractions := v1.Group("/extractions")
		extractions.GET("", historyH.List)
		extractions.GET("/export", historyH.Export)
		extractions.GET("/:id", historyH.Get)
		extractions.GET("/:id/download", historyH.Download)
	}

	return r
}
