// Package pushover sends command outcomes to a phone via the Pushover API.
package pushover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voice-lights/internal/domain"
)

// Pushover priorities: -1 quiet, 0 normal, 1 high (bypasses quiet hours).
const (
	priorityQuiet = -1
	priorityHigh  = 1
)

type style struct {
	title    string
	priority int
	sound    string
}

var styles = map[domain.NotificationKind]style{
	domain.NotifyCommandExecuted: {title: "Lights switched", priority: priorityQuiet, sound: "none"},
	domain.NotifyRelayFailure:    {title: "Relay unavailable", priority: priorityHigh, sound: "siren"},
}

var defaultStyle = style{title: "Voice Lights", priority: 0, sound: "pushover"}

type Client struct {
	token      string
	userKey    string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token, userKey string) *Client {
	return NewClientWithURL(token, userKey, "https://api.pushover.net")
}

func NewClientWithURL(token, userKey, baseURL string) *Client {
	return &Client{
		token:      token,
		userKey:    userKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify is a no-op when credentials are missing.
func (c *Client) Notify(ctx context.Context, n domain.Notification) error {
	if c.token == "" || c.userKey == "" {
		return nil
	}

	st, ok := styles[n.Kind]
	if !ok {
		st = defaultStyle
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", c.userKey)
	form.Set("title", st.title)
	form.Set("message", formatMessage(n))
	form.Set("priority", strconv.Itoa(st.priority))
	form.Set("sound", st.sound)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/1/messages.json", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s notification: %w", n.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover rejected %s notification: %s", n.Kind, resp.Status)
	}
	return nil
}

func formatMessage(n domain.Notification) string {
	if n.Command == "" {
		return n.Message
	}
	return fmt.Sprintf("%s\nCommand: %q", n.Message, n.Command)
}
