package handlers

import (
	"smart_temperature/internal/logger"
	"smart_temperature/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.root)
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Session-token-gated API (paths preserved from the original surface)
	h.registerTemperatureRoutes(router)
	h.registerHistoryRoutes(router)

	// Live dashboard stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsDashboard)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.POST("/change-password", h.changePassword)
	}
}

func (h *Handler) registerTemperatureRoutes(r *gin.Engine) {
	temp := r.Group("/temperature", h.sessionMiddleware)
	{
		temp.POST("/prediction", h.createPrediction)
		temp.GET("/prediction/latest", h.latestPrediction)
		temp.GET("/prediction/all", h.listPredictions)

		temp.POST("/data", h.createReading)
		temp.GET("/data/latest", h.latestReading)
		temp.GET("/data/all", h.listReadings)

		temp.GET("/dashboard", h.dashboard)

		temp.POST("/comfort", h.setComfortTemperature)
		temp.GET("/comfort/current", h.currentComfortTemperature)

		temp.POST("/manual-control", h.setManualControls)

		temp.GET("/24h/real", h.last24hReadings)
		temp.GET("/24h/predictions", h.next24hPredictions)
	}
}

func (h *Handler) registerHistoryRoutes(r *gin.Engine) {
	history := r.Group("/history", h.sessionMiddleware)
	{
		history.POST("/mode", h.setMode)
		history.GET("/mode/current", h.currentMode)
		history.GET("/mode/all", h.modeHistory)
		history.GET("/all", h.historyReport)
		history.GET("/comparison", h.comparisonReport)
	}
}
