package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/internal/provider"
	"github.com/shenikar/sos_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// ProviderInfo описывает активный провайдер оповещений
type ProviderInfo struct {
	Active     string
	Simulation bool
}

type Handler struct {
	alertService    service.AlertService
	incidentService service.IncidentService
	providerInfo    ProviderInfo
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(alertService service.AlertService, incidentService service.IncidentService, providerInfo ProviderInfo, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		alertService:    alertService,
		incidentService: incidentService,
		providerInfo:    providerInfo,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Trigger an SOS alert
// @Description Register a panic alert from a device and start notifying its emergency contacts. Delivery runs in the background. Requires API key.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param alert body CreateAlertRequest true "Alert request"
// @Success 201 {object} CreateAlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := requestLogger(c, h.logger, "createAlert")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.alertService.TriggerAlert(c.Request.Context(), DTOToAlertRequest(input))
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		log.WithError(err).Error("Failed to trigger alert in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, CreateAlertResponse{
		Success:    true,
		IncidentID: incident.ID,
		Incident:   ModelToIncidentResponse(incident),
	})
}

// @Summary Get a list of incidents
// @Description Get incidents, newest first. All filters are combined with AND. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Incident status" Enums(triggered, alerts_sent, alert_failed, resolved)
// @Param deviceId query int false "Device ID"
// @Param startDate query string false "Lower bound of event time, RFC3339 or epoch millis"
// @Param endDate query string false "Upper bound of event time, RFC3339 or epoch millis"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	filter, err := parseIncidentFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident statistics
// @Description Get counts by status and device plus the average dispatch response time. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsToResponse(stats))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, ok, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Resolve an incident
// @Description Mark an incident as resolved. Resolved is a terminal status. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param resolution body ResolveIncidentRequest false "Resolution details"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/resolve [put]
func (h *Handler) resolveIncident(c *gin.Context) {
	id := c.Param("id")
	log := requestLogger(c, h.logger, "resolveIncident").WithField("id", id)

	var input ResolveIncidentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			log.WithError(err).Warn("Failed to bind JSON")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), id, models.StatusResolved, ResolveDTOToPatch(input))
	if err != nil {
		var (
			nfErr *models.NotFoundError
			trErr *models.TransitionError
		)
		switch {
		case errors.As(err, &nfErr):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		case errors.As(err, &trErr):
			c.JSON(http.StatusConflict, gin.H{"error": trErr.Error()})
		default:
			log.WithError(err).Error("Failed to resolve incident in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get incidents of a device
// @Description Get all incidents of one device, newest first. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param deviceId path int true "Device ID"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid device ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /devices/{deviceId}/incidents [get]
func (h *Handler) listDeviceIncidents(c *gin.Context) {
	deviceID, err := strconv.ParseInt(c.Param("deviceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device ID"})
		return
	}
	log := h.logger.WithField("method", "listDeviceIncidents").WithField("device_id", deviceID)

	incidents, err := h.incidentService.ListByDevice(c.Request.Context(), deviceID)
	if err != nil {
		log.WithError(err).Error("Failed to list device incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get notification provider info
// @Description Get the active provider, whether alerts are simulated, and all supported providers. Requires API key.
// @Tags System
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ProvidersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /providers [get]
func (h *Handler) getProviders(c *gin.Context) {
	c.JSON(http.StatusOK, ProvidersResponse{
		Active:     h.providerInfo.Active,
		Simulation: h.providerInfo.Simulation,
		Supported:  provider.SupportedProviders(),
	})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseIncidentFilter(c *gin.Context) (models.IncidentFilter, error) {
	var filter models.IncidentFilter

	if v := c.Query("status"); v != "" {
		status := models.Status(v)
		if !status.Valid() {
			return filter, fmt.Errorf("invalid status %q", v)
		}
		filter.Status = &status
	}
	if v := c.Query("deviceId"); v != "" {
		deviceID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid deviceId %q", v)
		}
		filter.DeviceID = &deviceID
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate: %w", err)
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate: %w", err)
		}
		filter.EndDate = &t
	}
	return filter, nil
}

// parseTimeParam принимает RFC3339 или epoch millis
func parseTimeParam(v string) (time.Time, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC3339 nor epoch millis", v)
	}
	return t, nil
}
