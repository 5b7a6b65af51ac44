// Package notify sends the advisor email that announces a new performance
// audit request. The wire format is the Resend transactional email API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// ConfigurationError reports a missing deployment setting. Its message is
// returned to HTTP callers verbatim.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return "Missing " + e.Setting
}

// ErrMissingCredential is returned by every send when no API key is configured.
var ErrMissingCredential = &ConfigurationError{Setting: "RESEND_API_KEY"}

// UpstreamError carries a non-2xx response from the email provider.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("notify upstream: %d %s", e.StatusCode, e.Body)
}

type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type SendResult struct {
	ID string `json:"id"`
}

type Client interface {
	SendAuditRequest(ctx context.Context, zip string) (*SendResult, error)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	from       string
	to         string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey, from, to string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		to:         to,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AuditRequestMessage builds the advisor email for zip.
func AuditRequestMessage(from, to, zip string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "New Performance Audit Request - " + zip,
		HTML:    "<p>You have a new performance audit request for zip code: <b>" + html.EscapeString(zip) + "</b>.</p>",
	}
}

func (c *HTTPClient) SendAuditRequest(ctx context.Context, zip string) (*SendResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	data, err := c.doReq(ctx, http.MethodPost, "/emails", AuditRequestMessage(c.from, c.to, zip))
	if err != nil {
		return nil, err
	}
	var result SendResult
	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("decode send response: %w", err)
		}
	}
	return &result, nil
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notify %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
