package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// QueueKey - список Redis с заданиями на рассылку
	QueueKey = "alert_dispatch_jobs"

	popTimeout    = 5 * time.Second
	popRetryDelay = time.Second
)

// Ключи метаданных, которые пишет обработчик рассылки
const (
	MetaResults      = "results"
	MetaResponseTime = "responseTime"
	MetaProvider     = "provider"
	MetaSimulated    = "simulated"
	MetaSMSSent      = "smsSent"
	MetaCallsPlaced  = "callsPlaced"
	MetaError        = "error"
)

// IncidentTracker - часть сервиса инцидентов, нужная обработчику
type IncidentTracker interface {
	GetIncident(ctx context.Context, id string) (*models.Incident, bool, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, patch map[string]any) (*models.Incident, error)
}

// AlertDispatcher рассылает SMS и звонки по контактам инцидента
type AlertDispatcher interface {
	DispatchAlert(ctx context.Context, incident *models.Incident, contacts []string) (*models.AlertOutcome, error)
	ProviderName() string
}

// StatusNotifier получает инцидент после смены статуса
type StatusNotifier interface {
	Notify(ctx context.Context, incident *models.Incident) error
}

// Worker выполняет задания на рассылку и записывает итоговый статус инцидента
type Worker struct {
	incidents   IncidentTracker
	dispatcher  AlertDispatcher
	notifier    StatusNotifier
	redisClient *redis.Client
	logger      *logrus.Logger
	done        chan struct{}
}

// NewWorker создает новый Worker. notifier и redisClient могут быть nil.
func NewWorker(incidents IncidentTracker, dispatcher AlertDispatcher, notifier StatusNotifier, redisClient *redis.Client, logger *logrus.Logger) *Worker {
	return &Worker{
		incidents:   incidents,
		dispatcher:  dispatcher,
		notifier:    notifier,
		redisClient: redisClient,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Process рассылает оповещения по инциденту и обновляет его статус ровно один раз
func (w *Worker) Process(ctx context.Context, job models.DispatchJob) error {
	log := w.logger.WithFields(logrus.Fields{
		"service":     "queue",
		"method":      "Process",
		"incident_id": job.IncidentID,
	})

	incident, ok, err := w.incidents.GetIncident(ctx, job.IncidentID)
	if err != nil {
		return fmt.Errorf("failed to load incident %s: %w", job.IncidentID, err)
	}
	if !ok {
		log.Warn("Incident not found, dropping dispatch job")
		return nil
	}

	start := time.Now()
	outcome, dispatchErr := w.dispatcher.DispatchAlert(ctx, incident, incident.EmergencyContacts)
	elapsed := time.Since(start).Milliseconds()

	status, patch := w.result(outcome, dispatchErr, elapsed)
	if dispatchErr != nil {
		log.WithError(dispatchErr).Error("Alert dispatch failed")
	} else {
		log.WithFields(logrus.Fields{
			"success":     outcome.SuccessCount(),
			"failed":      outcome.FailureCount(),
			"response_ms": elapsed,
		}).Info("Alert dispatch finished")
	}

	updated, err := w.incidents.UpdateStatus(ctx, incident.ID, status, patch)
	var trErr *models.TransitionError
	if errors.As(err, &trErr) && trErr.From == models.StatusResolved {
		// Инцидент закрыт во время рассылки: статус остается resolved, результаты сохраняются
		if _, err := w.incidents.UpdateStatus(ctx, incident.ID, models.StatusResolved, patch); err != nil {
			return fmt.Errorf("failed to record dispatch result for resolved incident %s: %w", incident.ID, err)
		}
		log.WithField("dispatch_status", status).Info("Incident resolved during dispatch, results kept in metadata")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record dispatch result for incident %s: %w", incident.ID, err)
	}

	if w.notifier != nil {
		if err := w.notifier.Notify(ctx, updated); err != nil {
			log.WithError(err).Warn("Failed to notify status webhook")
		}
	}
	return nil
}

func (w *Worker) result(outcome *models.AlertOutcome, dispatchErr error, elapsed int64) (models.Status, map[string]any) {
	if dispatchErr != nil || outcome == nil {
		msg := "dispatch returned no outcome"
		if dispatchErr != nil {
			msg = dispatchErr.Error()
		}
		return models.StatusAlertFailed, map[string]any{
			MetaError:        msg,
			MetaResponseTime: elapsed,
			MetaProvider:     w.dispatcher.ProviderName(),
		}
	}

	status := models.StatusAlertFailed
	if outcome.SuccessCount() > 0 {
		status = models.StatusAlertsSent
	}
	return status, map[string]any{
		MetaResults:      outcome,
		MetaResponseTime: elapsed,
		MetaProvider:     w.dispatcher.ProviderName(),
		MetaSimulated:    outcome.Simulated(),
		MetaSMSSent:      countSuccess(outcome.SMS),
		MetaCallsPlaced:  countSuccess(outcome.Calls),
	}
}

func countSuccess(results []models.DispatchResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

// Start запускает горутину для обработки очереди заданий в Redis
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting alert dispatch worker...")
	go func() {
		defer close(w.done)
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping alert dispatch worker.")
				return
			}

			// BRPOP - блокирующее извлечение из правой части списка (очереди)
			result, err := w.redisClient.BRPop(ctx, popTimeout, QueueKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop dispatch job from Redis")
				select {
				case <-ctx.Done():
				case <-time.After(popRetryDelay):
				}
				continue
			}

			// result[0] - ключ, result[1] - значение
			var job models.DispatchJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal dispatch job from Redis")
				continue
			}

			// Начатая рассылка доводится до конца даже при остановке
			if err := w.Process(context.WithoutCancel(ctx), job); err != nil {
				w.logger.WithError(err).WithField("incident_id", job.IncidentID).Error("Failed to process dispatch job")
			}
		}
	}()
}

// Done закрывается после остановки цикла, запущенного Start
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
