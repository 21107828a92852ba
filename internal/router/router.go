package router

import (
	"github.com/gin-gonic/gin"

	"ladinglens/internal/handler"
	"ladinglens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	processH *handler.ProcessHandler,
	documentH *handler.DocumentHandler,
	jobH *handler.JobHandler,
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

	// Pipeline runs
	v1.POST("/process", processH.Run)
	v1.GET("/process-stream", processH.Stream)

	// Async jobs
	jobs := v1.Group("/jobs")
	jobs.POST("", jobH.Create)
	jobs.GET("", jobH.List)
	jobs.GET("/:id", jobH.GetByID)

	// Document listings
	v1.GET("/hbl", documentH.ListHBL)
	v1.GET("/mbl", documentH.ListMBL)

	docs := v1.Group("/documents")
	docs.GET("/stats", documentH.Stats)
	docs.GET("/export/csv", documentH.ExportCSV)
	docs.GET("/export/xlsx", documentH.ExportXLSX)
	docs.GET("/:dedupeKey", documentH.GetByDedupeKey)

	return r
}
