package service

//go:generate mockgen -source=incident.go -destination=mocks/incident.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultBatteryLevel = 100

	// MetaResponseTime - ключ метаданных с длительностью рассылки в миллисекундах
	MetaResponseTime = "responseTime"
)

// IncidentRepository определяет контракт хранилища инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, bool, error)
	// UpdateStatus атомарно проверяет переход, объединяет метаданные и меняет статус
	UpdateStatus(ctx context.Context, id string, status models.Status, patch map[string]any, updatedAt time.Time) (*models.Incident, error)
	// List возвращает инциденты по убыванию времени события, при равенстве - в порядке добавления
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
}

// IncidentService определяет контракт учета инцидентов и их статусов
type IncidentService interface {
	CreateIncident(ctx context.Context, req models.AlertRequest) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, bool, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, patch map[string]any) (*models.Incident, error)
	ListByDevice(ctx context.Context, deviceID int64) ([]*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	GetStats(ctx context.Context) (*models.IncidentStats, error)
}

type incidentService struct {
	repo   IncidentRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateIncident создает инцидент со статусом triggered и значениями по умолчанию
func (s *incidentService) CreateIncident(ctx context.Context, req models.AlertRequest) (*models.Incident, error) {
	if req.DeviceID == nil {
		return nil, &models.ValidationError{Field: "deviceId"}
	}
	if len(req.EmergencyContacts) == 0 {
		return nil, &models.ValidationError{Field: "emergencyContacts", Reason: "must not be empty"}
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "CreateIncident",
		"device_id": *req.DeviceID,
	})
	log.Info("Attempting to create a new incident")

	now := s.now()
	incident := &models.Incident{
		ID:                ulid.Make().String(),
		DeviceID:          *req.DeviceID,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		BatteryLevel:      defaultBatteryLevel,
		SequenceNumber:    req.SequenceNumber,
		Timestamp:         req.Timestamp,
		EmergencyContacts: append([]string(nil), req.EmergencyContacts...),
		Status:            models.StatusTriggered,
		Metadata:          map[string]any{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.BatteryLevel != nil {
		incident.BatteryLevel = *req.BatteryLevel
	}
	if incident.Timestamp == 0 {
		incident.Timestamp = now.UnixMilli()
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return incident, nil
}

// GetIncident получает инцидент по ID, ok == false если его нет
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, bool, error) {
	incident, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"method":      "GetIncident",
			"incident_id": id,
		}).WithError(err).Error("Failed to get incident from repository")
		return nil, false, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, ok, nil
}

// UpdateStatus меняет статус и объединяет patch с метаданными.
// Это единственный путь изменения инцидента.
func (s *incidentService) UpdateStatus(ctx context.Context, id string, status models.Status, patch map[string]any) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})

	if !status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("has unknown value %q", status)}
	}

	incident, err := s.repo.UpdateStatus(ctx, id, status, patch, s.now())
	if err != nil {
		log.WithError(err).Warn("Failed to update incident status")
		return nil, fmt.Errorf("service: could not update incident status: %w", err)
	}

	log.Info("Incident status updated")
	return incident, nil
}

// ListByDevice возвращает инциденты устройства, новые первыми
func (s *incidentService) ListByDevice(ctx context.Context, deviceID int64) ([]*models.Incident, error) {
	return s.ListIncidents(ctx, models.IncidentFilter{DeviceID: &deviceID})
}

// ListIncidents возвращает инциденты, удовлетворяющие всем фильтрам
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "incident",
			"method":  "ListIncidents",
		}).WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// GetStats считает статистику по текущему состоянию хранилища.
// Среднее время ответа учитывает только инциденты с записанным responseTime.
func (s *incidentService) GetStats(ctx context.Context) (*models.IncidentStats, error) {
	incidents, err := s.ListIncidents(ctx, models.IncidentFilter{})
	if err != nil {
		return nil, err
	}

	stats := &models.IncidentStats{
		Total:    len(incidents),
		ByStatus: make(map[models.Status]int),
		ByDevice: make(map[int64]int),
	}

	var (
		sum   float64
		count int
	)
	for _, incident := range incidents {
		stats.ByStatus[incident.Status]++
		stats.ByDevice[incident.DeviceID]++
		if ms, ok := numeric(incident.Metadata[MetaResponseTime]); ok {
			sum += ms
			count++
		}
	}
	if count > 0 {
		stats.AvgResponseTime = int64(math.Round(sum / float64(count)))
	}
	return stats, nil
}

// numeric приводит значение метаданных к числу, JSON-хранилища возвращают float64
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
