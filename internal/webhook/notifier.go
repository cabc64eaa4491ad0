package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	EventStatusChanged = "incident.status_changed"
	signatureHeader    = "X-Webhook-Signature"
)

// StatusEvent - тело вебхука об изменении статуса инцидента
type StatusEvent struct {
	Event    string           `json:"event"`
	Incident *models.Incident `json:"incident"`
}

// Notifier отправляет вебхуки об изменении статуса инцидентов
type Notifier struct {
	url        string
	secret     string
	maxRetries int
	baseDelay  time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewNotifier создает новый Notifier. Без WEBHOOK_URL Notify ничего не делает.
func NewNotifier(cfg *config.Config, logger *logrus.Logger) *Notifier {
	return &Notifier{
		url:        cfg.WebhookURL,
		secret:     cfg.WebhookSecret,
		maxRetries: cfg.WebhookMaxRetries,
		baseDelay:  cfg.WebhookBaseDelay,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		logger: logger,
	}
}

// Enabled сообщает, задан ли адрес вебхука
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify доставляет событие с повторами и экспоненциальной задержкой.
// Ошибка возвращается только после исчерпания всех попыток.
func (n *Notifier) Notify(ctx context.Context, incident *models.Incident) error {
	if !n.Enabled() {
		return nil
	}

	log := n.logger.WithFields(logrus.Fields{
		"service":     "webhook",
		"method":      "Notify",
		"incident_id": incident.ID,
		"status":      incident.Status,
	})

	payload, err := json.Marshal(StatusEvent{Event: EventStatusChanged, Incident: incident})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	attempts := n.maxRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := n.baseDelay

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.WithError(lastErr).Warnf("Webhook delivery failed. Retrying in %v. Retries left: %d", delay, attempts-i)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = n.send(ctx, payload)
		if lastErr == nil {
			log.Info("Webhook delivered successfully.")
			return nil
		}
	}

	log.WithError(lastErr).Errorf("Failed to deliver webhook after %d attempts.", attempts)
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", attempts, lastErr)
}

func (n *Notifier) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if n.secret != "" {
		req.Header.Set(signatureHeader, generateHMACSHA256(payload, n.secret))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
