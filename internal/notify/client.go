// Package notify delivers templated notifications through the
// community notification service. Delivery is best-effort: callers get
// a bool, never an error, because verification outcomes must not
// depend on notification uptime.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"refguard/pkg/domain"
)

const defaultTimeout = 5 * time.Second

// Client posts notifications to the notification service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client against the given base URL. An empty base
// URL yields a client whose Send always reports failure.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendRequest struct {
	UserID   string            `json:"user_id"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data,omitempty"`
}

// Send delivers a templated notification to the user. Returns false
// when the notification could not be delivered.
func (c *Client) Send(ctx context.Context, userID domain.UserID, template string, data map[string]string) bool {
	if c.baseURL == "" {
		return false
	}

	body, err := json.Marshal(sendRequest{
		UserID:   userID.String(),
		Template: template,
		Data:     data,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "encode notification", "error", err, "template", template)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		c.logger.ErrorContext(ctx, "build notification request", "error", err, "template", template)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "notification service unreachable", "error", err, "template", template)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "notification rejected",
			"status", resp.StatusCode,
			"template", template,
			"user_id", userID,
		)
		return false
	}
	return true
}
