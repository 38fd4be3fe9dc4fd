package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
// metricsHandler may be nil.
func New(handler *handlers.APIHandler, allowedOrigins []string, metricsHandler http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.CreateProduct)
		api.DELETE("/products/:id", handler.RequestDeleteProduct)
		api.GET("/products/delete/pending", handler.PendingDelete)
		api.POST("/products/delete/confirm", handler.ConfirmDeleteProduct)
		api.POST("/products/delete/cancel", handler.CancelDeleteProduct)

		api.GET("/records", handler.ListRecords)
		api.GET("/records/recent", handler.RecentRecords)
		api.POST("/records", handler.CreateRecord)

		api.GET("/stats", handler.Stats)

		api.GET("/export/json", handler.ExportJSON)
		api.GET("/export/csv", handler.ExportCSV)
		api.POST("/import", handler.Import)
		api.GET("/restore/pending", handler.PendingRestore)
		api.POST("/restore/confirm", handler.ConfirmRestore)
		api.POST("/restore/cancel", handler.CancelRestore)

		api.GET("/notice", handler.Notice)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
