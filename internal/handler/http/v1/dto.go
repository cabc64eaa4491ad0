package v1

import (
	"time"
)

// CreateAlertRequest DTO для сигнала тревоги от устройства
// @Description DTO для сигнала тревоги от устройства
type CreateAlertRequest struct {
	DeviceID          *int64   `json:"deviceId" validate:"required"`
	Latitude          float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude         float64  `json:"longitude" validate:"gte=-180,lte=180"`
	BatteryLevel      *int     `json:"batteryLevel,omitempty" validate:"omitempty,gte=0,lte=100"`
	SequenceNumber    int64    `json:"sequenceNumber,omitempty" validate:"gte=0"`
	Timestamp         int64    `json:"timestamp,omitempty" validate:"gte=0"` // epoch millis
	EmergencyContacts []string `json:"emergencyContacts" validate:"required,min=1,dive,max=32"`
}

// ResolveIncidentRequest DTO для закрытия инцидента
// @Description DTO для закрытия инцидента
type ResolveIncidentRequest struct {
	ResolvedBy string `json:"resolvedBy,omitempty" validate:"max=255"`
	Resolution string `json:"resolution,omitempty" validate:"max=2000"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                string         `json:"id"`
	DeviceID          int64          `json:"deviceId"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	LocationURL       string         `json:"locationUrl,omitempty"`
	BatteryLevel      int            `json:"batteryLevel"`
	SequenceNumber    int64          `json:"sequenceNumber"`
	Timestamp         int64          `json:"timestamp"`
	EmergencyContacts []string       `json:"emergencyContacts"`
	Status            string         `json:"status"`
	Metadata          map[string]any `json:"metadata"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// CreateAlertResponse DTO для ответа на сигнал тревоги
// @Description DTO для ответа на сигнал тревоги
type CreateAlertResponse struct {
	Success    bool              `json:"success"`
	IncidentID string            `json:"incidentId"`
	Incident   *IncidentResponse `json:"incident"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	ByDevice        map[string]int `json:"byDevice"`
	AvgResponseTime int64          `json:"avgResponseTime"`
}

// ProvidersResponse DTO с информацией о провайдере оповещений
// @Description DTO с информацией о провайдере оповещений
type ProvidersResponse struct {
	Active     string   `json:"active"`
	Simulation bool     `json:"simulation"`
	Supported  []string `json:"supported"`
}
