package models

import "time"

// Channel - канал доставки оповещения
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelVoice Channel = "voice"
)

// DispatchResult - результат отправки одному контакту по одному каналу
type DispatchResult struct {
	Contact           string  `json:"contact"`
	Channel           Channel `json:"channel"`
	Success           bool    `json:"success"`
	ProviderMessageID string  `json:"providerMessageId,omitempty"`
	ProviderStatus    string  `json:"providerStatus,omitempty"`
	Provider          string  `json:"provider,omitempty"`
	Simulated         bool    `json:"simulated"`
	ErrorMessage      string  `json:"errorMessage,omitempty"`
	Attempts          int     `json:"attempts,omitempty"`
}

// AlertOutcome - агрегированный результат одной рассылки
type AlertOutcome struct {
	SMS   []DispatchResult `json:"sms"`
	Calls []DispatchResult `json:"calls"`
}

// SuccessCount возвращает число успешных отправок по обоим каналам
func (o *AlertOutcome) SuccessCount() int {
	n := 0
	for _, r := range o.SMS {
		if r.Success {
			n++
		}
	}
	for _, r := range o.Calls {
		if r.Success {
			n++
		}
	}
	return n
}

// FailureCount возвращает число неудачных отправок по обоим каналам
func (o *AlertOutcome) FailureCount() int {
	return len(o.SMS) + len(o.Calls) - o.SuccessCount()
}

// Simulated сообщает, была ли хотя бы одна отправка симулирована
func (o *AlertOutcome) Simulated() bool {
	for _, r := range o.SMS {
		if r.Simulated {
			return true
		}
	}
	for _, r := range o.Calls {
		if r.Simulated {
			return true
		}
	}
	return false
}

// DispatchJob - задание на фоновую рассылку по инциденту
type DispatchJob struct {
	IncidentID string    `json:"incident_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
