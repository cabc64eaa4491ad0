package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	} else {
		h.logger.Warn("API_KEYS is empty, API authentication is disabled")
	}

	// Прием сигнала тревоги
	protected.POST("/alerts", h.createAlert)

	// Маршруты для просмотра и закрытия инцидентов
	incidents := protected.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", h.getStats)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id/resolve", h.resolveIncident)
	}

	protected.GET("/devices/:deviceId/incidents", h.listDeviceIncidents)
	protected.GET("/providers", h.getProviders)
}
