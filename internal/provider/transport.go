package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a provider call when the service config does not
// set one. The engine degrades to pattern-only scoring on expiry.
const DefaultTimeout = 5 * time.Second

const (
	classifyPath = "/classify"
	healthPath   = "/health"
)

// client holds what every provider client shares: its routing name, the
// sidecar base URL, and an HTTP client carrying the per-provider timeout.
type client struct {
	name    string
	baseURL string
	http    *http.Client
}

// Name returns the provider name used in snapshot routing and results.
func (c *client) Name() string { return c.name }

// Health calls GET /health on the sidecar.
func (c *client) Health(ctx context.Context) (Health, error) {
	return doHealth(ctx, c.http, c.baseURL)
}

func newClient(name, baseURL string, timeout time.Duration) client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return client{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// healthResponse is the JSON shape returned by GET /health (model_version optional).
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// doClassify sends POST /classify to baseURL with reqBody, decoding the
// response into respPtr. Request shapes differ per provider, so reqBody
// is any JSON-marshalable value.
func doClassify(ctx context.Context, httpClient *http.Client, baseURL string, reqBody, respPtr any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+classifyPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(respPtr); decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	return nil
}

// doHealth calls GET /health at baseURL and reports reachability, latency,
// and the advertised model version.
func doHealth(ctx context.Context, httpClient *http.Client, baseURL string) (Health, error) {
	start := time.Now()

	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+healthPath, http.NoBody)
	if reqErr != nil {
		return Health{}, fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := httpClient.Do(httpReq)
	latencyMs := time.Since(start).Milliseconds()
	if doErr != nil {
		return Health{LatencyMs: latencyMs}, fmt.Errorf("%w: %w", ErrUnavailable, doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Health{LatencyMs: latencyMs}, fmt.Errorf("%w: unhealthy status %d", ErrUnavailable, resp.StatusCode)
	}

	h := Health{Reachable: true, LatencyMs: latencyMs}
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr == nil {
		h.ModelVersion = healthResp.ModelVersion
	}
	return h, nil
}
