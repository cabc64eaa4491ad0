// Package dispatcher рассылает оповещения об инциденте всем контактам по SMS и голосовым звонкам.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/internal/phone"
	"github.com/shenikar/sos_alert_system/internal/provider"
	"github.com/sirupsen/logrus"
)

// SimulationProvider - имя провайдера в результатах симуляции
const SimulationProvider = "simulation"

// ErrNoContacts - у инцидента нет ни одного непустого контакта
var ErrNoContacts = errors.New("dispatcher: no contacts to notify")

// Dispatcher рассылает оповещения через выбранного провайдера.
// Без провайдера работает в режиме симуляции.
type Dispatcher struct {
	provider   provider.Provider
	normalizer *phone.Normalizer
	maxRetries int
	retryDelay time.Duration
	location   *time.Location
	logger     *logrus.Logger
}

// New создает Dispatcher. p == nil включает режим симуляции.
func New(p provider.Provider, cfg config.DispatchConfig, logger *logrus.Logger) *Dispatcher {
	loc := time.UTC
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		} else {
			logger.WithError(err).Warnf("Unknown alert timezone %q, using UTC", cfg.Timezone)
		}
	}

	d := &Dispatcher{
		provider:   p,
		normalizer: phone.NewNormalizer(cfg.CallingCode),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		location:   loc,
		logger:     logger,
	}
	if p == nil {
		logger.Warn("No notification provider configured, alerts will be simulated")
	}
	return d
}

// Simulated сообщает, работает ли рассылка в режиме симуляции
func (d *Dispatcher) Simulated() bool {
	return d.provider == nil
}

// ProviderName возвращает имя активного провайдера
func (d *Dispatcher) ProviderName() string {
	if d.provider == nil {
		return SimulationProvider
	}
	return d.provider.Name()
}

// DispatchAlert отправляет SMS и звонок каждому непустому контакту.
// Все 2×N отправок идут параллельно, метод ждет завершения каждой.
// Ошибки отдельных отправок попадают в результат и не прерывают остальные,
// ошибка возвращается только если отправлять некому.
func (d *Dispatcher) DispatchAlert(ctx context.Context, incident *models.Incident, contacts []string) (*models.AlertOutcome, error) {
	targets := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if strings.TrimSpace(c) != "" {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return nil, ErrNoContacts
	}

	log := d.logger.WithFields(logrus.Fields{
		"service":     "dispatcher",
		"method":      "DispatchAlert",
		"incident_id": incident.ID,
		"device_id":   incident.DeviceID,
		"provider":    d.ProviderName(),
	})
	log.WithField("contacts", len(targets)).Info("Dispatching alert")

	smsText := BuildSMSMessage(incident, d.location)
	voiceText := BuildVoiceMessage(incident, d.location)

	outcome := &models.AlertOutcome{
		SMS:   make([]models.DispatchResult, len(targets)),
		Calls: make([]models.DispatchResult, len(targets)),
	}

	var wg sync.WaitGroup
	for i, contact := range targets {
		wg.Add(2)
		go func(i int, contact string) {
			defer wg.Done()
			outcome.SMS[i] = d.send(ctx, models.ChannelSMS, contact, smsText)
		}(i, contact)
		go func(i int, contact string) {
			defer wg.Done()
			outcome.Calls[i] = d.send(ctx, models.ChannelVoice, contact, voiceText)
		}(i, contact)
	}
	wg.Wait()

	log.WithFields(logrus.Fields{
		"succeeded": outcome.SuccessCount(),
		"failed":    outcome.FailureCount(),
	}).Info("Alert dispatch completed")
	return outcome, nil
}

// send выполняет одну отправку с повторами и всегда возвращает результат
func (d *Dispatcher) send(ctx context.Context, channel models.Channel, contact, message string) (res models.DispatchResult) {
	res = models.DispatchResult{Contact: contact, Channel: channel}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.ErrorMessage = fmt.Sprintf("panic during send: %v", r)
			d.logger.WithField("channel", channel).Errorf("Recovered from panic while sending alert: %v", r)
		}
	}()

	if d.provider == nil {
		sim := provider.SimulatedResult(SimulationProvider)
		res.Success = true
		res.Simulated = true
		res.ProviderMessageID = sim.MessageID
		res.ProviderStatus = sim.Status
		res.Provider = sim.Provider
		res.Attempts = 1
		return res
	}

	res.Provider = d.provider.Name()
	to := d.normalizer.Normalize(contact)

	var result *provider.Result
	attempts, err := withRetry(ctx, d.maxRetries, d.retryDelay, func() error {
		var callErr error
		result, callErr = d.call(ctx, channel, to, message)
		if callErr == nil && result == nil {
			callErr = &provider.ProviderError{Vendor: d.provider.Name(), Err: errors.New("empty result")}
		}
		return callErr
	})
	res.Attempts = attempts
	if err != nil {
		res.ErrorMessage = err.Error()
		d.logger.WithFields(logrus.Fields{
			"channel":  channel,
			"to":       to,
			"attempts": attempts,
		}).WithError(err).Warn("Alert send failed")
		return res
	}

	res.Success = result.Success
	res.Simulated = result.Simulated
	res.ProviderMessageID = result.MessageID
	res.ProviderStatus = result.Status
	if result.Provider != "" {
		res.Provider = result.Provider
	}
	return res
}

func (d *Dispatcher) call(ctx context.Context, channel models.Channel, to, message string) (*provider.Result, error) {
	if channel == models.ChannelVoice {
		return d.provider.MakeVoiceCall(ctx, to, message)
	}
	return d.provider.SendSMS(ctx, to, message)
}
