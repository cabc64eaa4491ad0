package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

// Exotel отправляет SMS и звонки через Exotel API.
// Голосовое сообщение передается в App flow через CustomField.
type Exotel struct {
	cfg         config.ExotelConfig
	ringTimeout time.Duration
	timeLimit   time.Duration
	client      *http.Client
	logger      *logrus.Logger
}

type exotelSMSResponse struct {
	SMSMessage struct {
		Sid    string `json:"Sid"`
		Status string `json:"Status"`
	} `json:"SMSMessage"`
}

type exotelCallResponse struct {
	Call struct {
		Sid    string `json:"Sid"`
		Status string `json:"Status"`
	} `json:"Call"`
}

func newExotel(cfg config.ProviderConfig, client *http.Client, log *logrus.Logger) (Provider, error) {
	e := &Exotel{
		cfg:         cfg.Exotel,
		ringTimeout: cfg.CallRingTimeout,
		timeLimit:   cfg.CallTimeLimit,
		client:      client,
		logger:      log,
	}
	if err := e.ValidateConfig(); err != nil {
		return nil, err
	}
	if e.cfg.BaseURL == "" {
		e.cfg.BaseURL = "https://api.exotel.com"
	}
	return e, nil
}

func (e *Exotel) Name() string { return NameExotel }

func (e *Exotel) ValidateConfig() error {
	switch {
	case e.cfg.APIKey == "":
		return &ConfigError{Vendor: NameExotel, Field: "api_key"}
	case e.cfg.APIToken == "":
		return &ConfigError{Vendor: NameExotel, Field: "api_token"}
	case e.cfg.AccountSID == "":
		return &ConfigError{Vendor: NameExotel, Field: "account_sid"}
	case e.cfg.CallerID == "":
		return &ConfigError{Vendor: NameExotel, Field: "caller_id"}
	case e.cfg.AppID == "":
		return &ConfigError{Vendor: NameExotel, Field: "app_id"}
	}
	return nil
}

func (e *Exotel) SendSMS(ctx context.Context, to, message string) (*Result, error) {
	form := url.Values{}
	form.Set("From", e.cfg.CallerID)
	form.Set("To", to)
	form.Set("Body", truncate(message, smsMaxLen))

	var resp exotelSMSResponse
	if err := e.post(ctx, "Sms/send.json", form, &resp); err != nil {
		return nil, err
	}
	if resp.SMSMessage.Sid == "" {
		return nil, &ProviderError{Vendor: NameExotel, Err: errors.New("response has no SMSMessage.Sid")}
	}
	return &Result{Success: true, MessageID: resp.SMSMessage.Sid, Status: resp.SMSMessage.Status, Provider: NameExotel}, nil
}

// MakeVoiceCall соединяет контакт с App flow, который зачитывает CustomField
func (e *Exotel) MakeVoiceCall(ctx context.Context, to, message string) (*Result, error) {
	form := url.Values{}
	form.Set("From", to)
	form.Set("CallerId", e.cfg.CallerID)
	form.Set("Url", fmt.Sprintf("http://my.exotel.com/%s/exoml/start_voice/%s", e.cfg.AccountSID, e.cfg.AppID))
	form.Set("CustomField", truncate(message, voiceMaxLen))
	if e.ringTimeout > 0 {
		form.Set("TimeOut", seconds(e.ringTimeout))
	}
	if e.timeLimit > 0 {
		form.Set("TimeLimit", seconds(e.timeLimit))
	}

	var resp exotelCallResponse
	if err := e.post(ctx, "Calls/connect.json", form, &resp); err != nil {
		return nil, err
	}
	if resp.Call.Sid == "" {
		return nil, &ProviderError{Vendor: NameExotel, Err: errors.New("response has no Call.Sid")}
	}

	e.logger.WithFields(logrus.Fields{
		"provider": NameExotel,
		"sid":      resp.Call.Sid,
	}).Debug("Voice call queued by provider")
	return &Result{Success: true, MessageID: resp.Call.Sid, Status: resp.Call.Status, Provider: NameExotel}, nil
}

func (e *Exotel) post(ctx context.Context, resource string, form url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/v1/Accounts/%s/%s",
		strings.TrimRight(e.cfg.BaseURL, "/"), url.PathEscape(e.cfg.AccountSID), resource)

	return do(ctx, e.client, httpRequest{
		vendor: NameExotel,
		url:    endpoint,
		form:   form,
		user:   e.cfg.APIKey,
		pass:   e.cfg.APIToken,
	}, out)
}
