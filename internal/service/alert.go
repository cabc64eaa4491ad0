package service

//go:generate mockgen -source=alert.go -destination=mocks/alert.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// DispatchPublisher передает задание на рассылку фоновому исполнителю
type DispatchPublisher interface {
	Publish(ctx context.Context, job models.DispatchJob) error
}

// AlertService определяет контракт приема сигнала тревоги
type AlertService interface {
	TriggerAlert(ctx context.Context, req models.AlertRequest) (*models.Incident, error)
}

type alertService struct {
	incidents IncidentService
	publisher DispatchPublisher
	logger    *logrus.Logger
}

func NewAlertService(incidents IncidentService, publisher DispatchPublisher, logger *logrus.Logger) AlertService {
	return &alertService{
		incidents: incidents,
		publisher: publisher,
		logger:    logger,
	}
}

// TriggerAlert создает инцидент и ставит рассылку в фон, не дожидаясь ее завершения.
// Вызывающий получает ошибку только для некорректного запроса или сбоя хранилища.
func (s *alertService) TriggerAlert(ctx context.Context, req models.AlertRequest) (*models.Incident, error) {
	incident, err := s.incidents.CreateIncident(ctx, req)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":     "alert",
		"method":      "TriggerAlert",
		"incident_id": incident.ID,
		"device_id":   incident.DeviceID,
	})

	job := models.DispatchJob{IncidentID: incident.ID, EnqueuedAt: time.Now()}
	if err := s.publisher.Publish(ctx, job); err != nil {
		log.WithError(err).Error("Failed to hand off alert dispatch")
		failed, updErr := s.incidents.UpdateStatus(ctx, incident.ID, models.StatusAlertFailed, map[string]any{
			"error": fmt.Sprintf("dispatch enqueue failed: %v", err),
		})
		if updErr != nil {
			log.WithError(updErr).Error("Failed to mark incident as alert_failed")
			return incident, nil
		}
		return failed, nil
	}

	log.Info("Alert dispatch scheduled")
	return incident, nil
}
