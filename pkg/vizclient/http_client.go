package vizclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// Config configures the HTTP visualization client.
type Config struct {
	// Endpoint is the single URL every request document is POSTed to.
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the remote visualization/data service. Every call is a
// single attempt: no retry, no queueing, no dedup of identical in-flight
// requests.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New builds a client for the configured endpoint.
func New(cfg Config) (*HTTPClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("vizclient: endpoint is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   httpClient,
	}, nil
}

// Visualize sends a visualization request and returns the rendered fragment.
func (c *HTTPClient) Visualize(ctx context.Context, req dashboard.VisualizationRequest) (dashboard.Fragment, error) {
	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := c.check(resp, false); err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &dashboard.NetworkError{Err: err}
	}
	if len(body) == 0 {
		return "", fmt.Errorf("vizclient: %w", dashboard.ErrEmptyData)
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var envelope struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Content == "" {
			return "", &dashboard.ServerError{Status: resp.StatusCode, Body: "malformed response envelope"}
		}
		return dashboard.Fragment(envelope.Content), nil
	}
	return dashboard.Fragment(body), nil
}

// Insert pushes new samples. Fire and forget: the caller decides whether a
// failure warrants another attempt.
func (c *HTTPClient) Insert(ctx context.Context, req dashboard.DataInsertRequest) error {
	resp, err := c.post(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.check(resp, true)
}

// Capabilities asks the service for its supported visualizations or
// processing methods.
func (c *HTTPClient) Capabilities(ctx context.Context, topic string) ([]string, error) {
	resp, err := c.post(ctx, dashboard.HelpRequest{Type: "help", For: topic})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.check(resp, false); err != nil {
		return nil, err
	}
	var listing map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, &dashboard.ServerError{Status: resp.StatusCode, Body: "malformed help response"}
	}
	values, ok := listing[topic]
	if !ok {
		return nil, &dashboard.ServerError{Status: resp.StatusCode, Body: fmt.Sprintf("help response missing %q", topic)}
	}
	return values, nil
}

func (c *HTTPClient) post(ctx context.Context, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("vizclient: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vizclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &dashboard.NetworkError{Err: err}
	}
	return resp, nil
}

// check maps the service's status codes onto the failure taxonomy.
func (c *HTTPClient) check(resp *http.Response, insert bool) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound && !insert:
		return fmt.Errorf("vizclient: %w", dashboard.ErrEmptyData)
	case resp.StatusCode == http.StatusConflict && insert:
		return fmt.Errorf("vizclient: %w", dashboard.ErrInsertConflict)
	default:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &dashboard.ServerError{Status: resp.StatusCode, Body: buf.String()}
	}
}
