package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

// MSG91 отправляет SMS через flow API и голосовые сообщения через voice API.
type MSG91 struct {
	cfg    config.MSG91Config
	client *http.Client
	logger *logrus.Logger
}

type msg91Response struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type msg91FlowRecipient struct {
	Mobiles string `json:"mobiles"`
	Message string `json:"message"`
}

type msg91FlowRequest struct {
	TemplateID string               `json:"template_id"`
	ShortURL   string               `json:"short_url"`
	Recipients []msg91FlowRecipient `json:"recipients"`
}

type msg91SMS struct {
	Message string   `json:"message"`
	To      []string `json:"to"`
}

type msg91SendRequest struct {
	Sender  string     `json:"sender"`
	Route   string     `json:"route"`
	Country string     `json:"country"`
	SMS     []msg91SMS `json:"sms"`
}

func newMSG91(cfg config.ProviderConfig, client *http.Client, log *logrus.Logger) (Provider, error) {
	m := &MSG91{cfg: cfg.MSG91, client: client, logger: log}
	if err := m.ValidateConfig(); err != nil {
		return nil, err
	}
	if m.cfg.BaseURL == "" {
		m.cfg.BaseURL = "https://control.msg91.com"
	}
	if m.cfg.TemplateID == "" {
		log.WithField("provider", NameMSG91).Warn("MSG91 template ID is not configured, falling back to plain route SMS (degraded mode)")
	}
	return m, nil
}

func (m *MSG91) Name() string { return NameMSG91 }

func (m *MSG91) ValidateConfig() error {
	switch {
	case m.cfg.AuthKey == "":
		return &ConfigError{Vendor: NameMSG91, Field: "auth_key"}
	case m.cfg.SenderID == "":
		return &ConfigError{Vendor: NameMSG91, Field: "sender_id"}
	}
	return nil
}

// SendSMS отправляет SMS через flow-шаблон, а без шаблона - через обычный маршрут
func (m *MSG91) SendSMS(ctx context.Context, to, message string) (*Result, error) {
	mobile := strings.TrimPrefix(to, "+")
	message = truncate(message, smsMaxLen)

	req := httpRequest{
		vendor:  NameMSG91,
		headers: map[string]string{"authkey": m.cfg.AuthKey},
	}
	if m.cfg.TemplateID != "" {
		req.url = strings.TrimRight(m.cfg.BaseURL, "/") + "/api/v5/flow/"
		req.json = msg91FlowRequest{
			TemplateID: m.cfg.TemplateID,
			ShortURL:   "0",
			Recipients: []msg91FlowRecipient{{Mobiles: mobile, Message: message}},
		}
	} else {
		req.url = strings.TrimRight(m.cfg.BaseURL, "/") + "/api/v2/sendsms"
		req.json = msg91SendRequest{
			Sender:  m.cfg.SenderID,
			Route:   "4",
			Country: "91",
			SMS:     []msg91SMS{{Message: message, To: []string{mobile}}},
		}
	}

	var resp msg91Response
	if err := do(ctx, m.client, req, &resp); err != nil {
		return nil, err
	}
	if resp.Type != "success" {
		return nil, &ProviderError{Vendor: NameMSG91, Err: fmt.Errorf("request rejected: %s", resp.Message)}
	}
	return &Result{Success: true, MessageID: resp.Message, Status: resp.Type, Provider: NameMSG91}, nil
}

// MakeVoiceCall зачитывает текст вызываемому абоненту через text-to-speech
func (m *MSG91) MakeVoiceCall(ctx context.Context, to, message string) (*Result, error) {
	query := url.Values{}
	query.Set("authkey", m.cfg.AuthKey)
	query.Set("mobiles", strings.TrimPrefix(to, "+"))
	query.Set("voice_message", truncate(message, voiceMaxLen))
	query.Set("country", "91")

	var resp msg91Response
	err := do(ctx, m.client, httpRequest{
		vendor: NameMSG91,
		url:    strings.TrimRight(m.cfg.BaseURL, "/") + "/api/v2/voice/call.php",
		query:  query,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Type == "error" {
		return nil, &ProviderError{Vendor: NameMSG91, Err: fmt.Errorf("call rejected: %s", resp.Message)}
	}

	id := resp.RequestID
	if id == "" {
		id = resp.Message
	}
	return &Result{Success: true, MessageID: id, Status: "initiated", Provider: NameMSG91}, nil
}
