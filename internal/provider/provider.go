// Package provider отправляет SMS и голосовые звонки через CPaaS-вендоров.
//
// Каждый вендор - отдельный вариант за общим интерфейсом Provider.
// Выбор варианта выполняет New по имени из конфигурации.
package provider

//go:generate mockgen -source=provider.go -destination=mocks/provider.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	NameMSG91   = "msg91"
	NameExotel  = "exotel"
	NameGupshup = "gupshup"

	// DefaultName - основной вендор, если имя в конфигурации не задано
	DefaultName = NameMSG91

	smsMaxLen   = 1600
	voiceMaxLen = 500
)

// Result - результат одной отправки через вендора
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Status    string `json:"status,omitempty"`
	Provider  string `json:"provider"`
	Simulated bool   `json:"simulated"`
}

// Provider - возможность отправки оповещений через одного вендора
type Provider interface {
	Name() string
	ValidateConfig() error
	SendSMS(ctx context.Context, to, message string) (*Result, error)
	MakeVoiceCall(ctx context.Context, to, message string) (*Result, error)
}

// ConfigError - не задано обязательное поле учетных данных вендора
type ConfigError struct {
	Vendor string
	Field  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing required config field %q", e.Vendor, e.Field)
}

// UnknownProviderError - имя вендора в конфигурации не распознано
type UnknownProviderError struct {
	Name      string
	Supported []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q, supported: %s", e.Name, strings.Join(e.Supported, ", "))
}

// ProviderError - вызов API вендора завершился неудачей
type ProviderError struct {
	Vendor     string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Vendor, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Vendor, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type constructor func(cfg config.ProviderConfig, client *http.Client, log *logrus.Logger) (Provider, error)

var registry = map[string]constructor{
	NameMSG91:   newMSG91,
	NameExotel:  newExotel,
	NameGupshup: newGupshup,
}

// SupportedProviders возвращает отсортированный список поддерживаемых вендоров
func SupportedProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New выбирает и создает провайдера по конфигурации.
// Состояние выбора не сохраняется, кэшировать результат должен вызывающий.
func New(cfg config.ProviderConfig, log *logrus.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		name = DefaultName
	}

	ctor, ok := registry[name]
	if !ok {
		return nil, &UnknownProviderError{Name: cfg.Name, Supported: SupportedProviders()}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return ctor(cfg, &http.Client{Timeout: timeout}, log)
}

// SimulatedResult возвращает успешный результат без сетевого вызова
func SimulatedResult(vendor string) *Result {
	return &Result{
		Success:   true,
		MessageID: "sim-" + uuid.NewString(),
		Status:    "simulated",
		Provider:  vendor,
		Simulated: true,
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%d", int(d.Seconds()))
}
