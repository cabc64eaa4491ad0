package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody - сколько байт тела ответа попадает в текст ошибки
const maxErrorBody = 512

// httpRequest - описание запроса к API вендора
type httpRequest struct {
	vendor  string
	method  string // по умолчанию POST
	url     string
	query   url.Values
	form    url.Values
	json    any
	user    string
	pass    string
	headers map[string]string
}

// do выполняет запрос и декодирует 2xx ответ в out.
// Сетевые ошибки, не-2xx статусы и некорректное тело возвращаются как *ProviderError.
func do(ctx context.Context, client *http.Client, r httpRequest, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.json != nil:
		payload, err := json.Marshal(r.json)
		if err != nil {
			return &ProviderError{Vendor: r.vendor, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	method := r.method
	if method == "" {
		method = http.MethodPost
	}
	endpoint := r.url
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &ProviderError{Vendor: r.vendor, Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.user != "" || r.pass != "" {
		req.SetBasicAuth(r.user, r.pass)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &ProviderError{Vendor: r.vendor, Err: fmt.Errorf("send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ProviderError{
			Vendor:     r.vendor,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(respBody))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Vendor: r.vendor, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
