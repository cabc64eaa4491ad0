package v1

import (
	"strconv"

	"github.com/shenikar/sos_alert_system/internal/models"
)

// DTOToAlertRequest преобразует DTO сигнала тревоги в доменный запрос
func DTOToAlertRequest(dto CreateAlertRequest) models.AlertRequest {
	return models.AlertRequest{
		DeviceID:          dto.DeviceID,
		Latitude:          dto.Latitude,
		Longitude:         dto.Longitude,
		BatteryLevel:      dto.BatteryLevel,
		SequenceNumber:    dto.SequenceNumber,
		Timestamp:         dto.Timestamp,
		EmergencyContacts: dto.EmergencyContacts,
	}
}

// ResolveDTOToPatch возвращает метаданные закрытия, пустые поля не записываются
func ResolveDTOToPatch(dto ResolveIncidentRequest) map[string]any {
	patch := map[string]any{}
	if dto.ResolvedBy != "" {
		patch["resolvedBy"] = dto.ResolvedBy
	}
	if dto.Resolution != "" {
		patch["resolution"] = dto.Resolution
	}
	return patch
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                model.ID,
		DeviceID:          model.DeviceID,
		Latitude:          model.Latitude,
		Longitude:         model.Longitude,
		LocationURL:       model.LocationURL(),
		BatteryLevel:      model.BatteryLevel,
		SequenceNumber:    model.SequenceNumber,
		Timestamp:         model.Timestamp,
		EmergencyContacts: model.EmergencyContacts,
		Status:            string(model.Status),
		Metadata:          model.Metadata,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// StatsToResponse преобразует статистику, ключи устройств становятся строками
func StatsToResponse(stats *models.IncidentStats) StatsResponse {
	resp := StatsResponse{
		Total:           stats.Total,
		ByStatus:        make(map[string]int, len(stats.ByStatus)),
		ByDevice:        make(map[string]int, len(stats.ByDevice)),
		AvgResponseTime: stats.AvgResponseTime,
	}
	for status, n := range stats.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for device, n := range stats.ByDevice {
		resp.ByDevice[strconv.FormatInt(device, 10)] = n
	}
	return resp
}
