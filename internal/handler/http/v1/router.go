package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует публичные страницы и маршруты API v1
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	// Страницы для мобильного приложения и больниц
	router.GET("/", h.root)
	router.POST("/report-accident", h.reportAccident)
	router.GET("/accept/:id", h.acceptForm)
	router.POST("/accept/:id", h.acceptResponse)
	router.GET("/dashboard", h.dashboard)

	api := router.Group("/api/v1")

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	// Маршруты для происшествий требуют API-ключ
	incidents := api.Group("/incidents", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
	}
}
