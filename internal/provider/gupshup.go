package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

// Gupshup отправляет SMS через Enterprise Gateway API.
// Голосовые звонки у вендора не подключены, MakeVoiceCall симулирует звонок.
type Gupshup struct {
	cfg    config.GupshupConfig
	client *http.Client
	logger *logrus.Logger
}

type gupshupStatus struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

type gupshupResponse struct {
	Response gupshupStatus `json:"response"`
	gupshupStatus
	Error string `json:"error"`
}

func newGupshup(cfg config.ProviderConfig, client *http.Client, log *logrus.Logger) (Provider, error) {
	g := &Gupshup{cfg: cfg.Gupshup, client: client, logger: log}
	if err := g.ValidateConfig(); err != nil {
		return nil, err
	}
	if g.cfg.BaseURL == "" {
		g.cfg.BaseURL = "https://enterprise.smsgupshup.com/GatewayAPI/rest"
	}
	if g.cfg.Source == "" {
		g.cfg.Source = "GSDSMS"
	}
	return g, nil
}

func (g *Gupshup) Name() string { return NameGupshup }

func (g *Gupshup) ValidateConfig() error {
	switch {
	case g.cfg.UserID == "":
		return &ConfigError{Vendor: NameGupshup, Field: "user_id"}
	case g.cfg.Password == "":
		return &ConfigError{Vendor: NameGupshup, Field: "password"}
	}
	return nil
}

func (g *Gupshup) SendSMS(ctx context.Context, to, message string) (*Result, error) {
	query := url.Values{}
	query.Set("method", "SendMessage")
	query.Set("send_to", strings.TrimPrefix(to, "+"))
	query.Set("msg", truncate(message, smsMaxLen))
	query.Set("msg_type", "TEXT")
	query.Set("userid", g.cfg.UserID)
	query.Set("password", g.cfg.Password)
	query.Set("auth_scheme", "plain")
	query.Set("v", "1.1")
	query.Set("format", "json")
	query.Set("source", g.cfg.Source)

	var resp gupshupResponse
	err := do(ctx, g.client, httpRequest{
		vendor: NameGupshup,
		method: http.MethodGet,
		url:    g.cfg.BaseURL,
		query:  query,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, &ProviderError{Vendor: NameGupshup, Err: fmt.Errorf("request rejected: %s", resp.Error)}
	}

	status := resp.Response.Status
	if status == "" {
		status = resp.Status
	}
	if strings.EqualFold(status, "error") {
		details := resp.Response.Details
		if details == "" {
			details = resp.Details
		}
		return nil, &ProviderError{Vendor: NameGupshup, Err: fmt.Errorf("request rejected: %s", details)}
	}

	id := resp.Response.ID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		id = "gupshup-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if status == "" {
		status = "success"
	}
	return &Result{Success: true, MessageID: id, Status: status, Provider: NameGupshup}, nil
}

func (g *Gupshup) MakeVoiceCall(_ context.Context, to, _ string) (*Result, error) {
	g.logger.WithFields(logrus.Fields{
		"provider": NameGupshup,
		"to":       to,
	}).Warn("Voice calls are not supported by provider, call simulated")
	return SimulatedResult(NameGupshup), nil
}
