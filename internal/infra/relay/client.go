// Package relay talks to the four-channel relay board that switches the lights.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voice-lights/internal/domain"
	"voice-lights/internal/infra"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      infra.RetryConfig
}

// NewClient accepts either a full base URL or a bare host such as "10.0.0.5".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      infra.QuickRetryConfig(),
	}
}

type bulkAction struct {
	Relay  int    `json:"relay"`
	Action string `json:"action"`
}

type statusResponse struct {
	Light1 bool   `json:"light1"`
	Light2 bool   `json:"light2"`
	Light3 bool   `json:"light3"`
	Light4 bool   `json:"light4"`
	IP     string `json:"ip"`
	WiFi   string `json:"wifi"`
	Signal int    `json:"signal"`
	MAC    string `json:"mac"`
}

type controlResponse struct {
	Success bool   `json:"success"`
	Relay   int    `json:"relay"`
	State   string `json:"state"`
	Error   string `json:"error"`
}

type bulkResponse struct {
	Results []struct {
		Relay int    `json:"relay"`
		State string `json:"state"`
	} `json:"results"`
}

func (c *Client) Status(ctx context.Context) (*domain.RelayStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w", err)
	}

	var sr statusResponse
	if err := json.Unmarshal(resp, &sr); err != nil {
		return nil, fmt.Errorf("parsing status: %w: %w", domain.ErrRelayUnavailable, err)
	}

	return &domain.RelayStatus{
		Lights: domain.LightStatus{1: sr.Light1, 2: sr.Light2, 3: sr.Light3, 4: sr.Light4},
		Info: domain.RelayInfo{
			IP:     sr.IP,
			WiFi:   sr.WiFi,
			Signal: sr.Signal,
			MAC:    sr.MAC,
		},
	}, nil
}

// Control switches a single relay.
func (c *Client) Control(ctx context.Context, light int, on bool) error {
	if !domain.ValidLight(light) {
		return fmt.Errorf("relay must be %d-%d, got %d", domain.MinLight, domain.MaxLight, light)
	}

	q := url.Values{}
	q.Set("relay", strconv.Itoa(light))
	q.Set("action", string(domain.ActionFromState(on)))

	resp, err := c.doRequest(ctx, http.MethodGet, "/control?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("controlling relay %d: %w", light, err)
	}

	var cr controlResponse
	if err := json.Unmarshal(resp, &cr); err != nil {
		return fmt.Errorf("parsing control response: %w: %w", domain.ErrRelayUnavailable, err)
	}
	if !cr.Success {
		return fmt.Errorf("relay %d rejected command: %s: %w", light, cr.Error, domain.ErrRelayUnavailable)
	}

	return nil
}

// Bulk applies several relay changes in one request.
func (c *Client) Bulk(ctx context.Context, commands []domain.LightCommand) error {
	if len(commands) == 0 {
		return nil
	}

	payload := make([]bulkAction, 0, len(commands))
	for _, cmd := range commands {
		payload = append(payload, bulkAction{
			Relay:  cmd.Light,
			Action: string(domain.ActionFromState(cmd.State)),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling bulk request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/bulk", body)
	if err != nil {
		return fmt.Errorf("bulk update: %w", err)
	}

	var br bulkResponse
	if err := json.Unmarshal(resp, &br); err != nil {
		return fmt.Errorf("parsing bulk response: %w: %w", domain.ErrRelayUnavailable, err)
	}
	if len(br.Results) != len(commands) {
		return fmt.Errorf("relay applied %d of %d commands: %w", len(br.Results), len(commands), domain.ErrRelayUnavailable)
	}

	return nil
}

// Ping reports whether the relay board answers its status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/status", nil); err != nil {
		return fmt.Errorf("pinging relay: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	retryErr := infra.WithRetry(ctx, c.retry, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("relay error %d (retryable): %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 {
			return infra.Permanent(fmt.Errorf("relay error %d: %s", resp.StatusCode, string(respBody)))
		}

		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRelayUnavailable, retryErr)
	}

	return respBody, nil
}
