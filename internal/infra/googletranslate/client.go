// Package googletranslate calls the public Google Translate "gtx" endpoint.
package googletranslate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voice-lights/internal/domain"
	"voice-lights/internal/infra"
)

const defaultBaseURL = "https://translate.googleapis.com"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return NewClientWithURL(defaultBaseURL, timeout)
}

func NewClientWithURL(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate auto-detects the source language of text.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	var translated string
	retryErr := infra.WithRetry(ctx, infra.QuickRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/translate_a/single?"+q.Encode(), nil)
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("google translate error %d (retryable)", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return infra.Permanent(fmt.Errorf("google translate error %d: %s", resp.StatusCode, string(body)))
		}

		translated, err = parseResponse(body)
		if err != nil {
			return infra.Permanent(err)
		}
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("translating to %s: %w: %w", target, domain.ErrTranslationUnavailable, retryErr)
	}

	return translated, nil
}

// parseResponse joins the translated segments found at data[0][i][0].
func parseResponse(body []byte) (string, error) {
	var data []any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := data[0].([]any)
	if !ok || len(segments) == 0 {
		return "", fmt.Errorf("unexpected response shape")
	}

	var sb strings.Builder
	for _, s := range segments {
		seg, ok := s.([]any)
		if !ok || len(seg) == 0 {
			continue
		}
		if text, ok := seg[0].(string); ok {
			sb.WriteString(text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated text in response")
	}
	return sb.String(), nil
}
