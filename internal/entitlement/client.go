// Package entitlement grants referral rewards through the membership
// service's HTTP API.
package entitlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

const defaultTimeout = 10 * time.Second

// Client calls the membership service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client against the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entitlement base url is required")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

type grantRequest struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
	Source string `json:"source"`
}

// Grant extends the user's membership by the given number of days.
func (c *Client) Grant(ctx context.Context, userID domain.UserID, days int) error {
	body, err := json.Marshal(grantRequest{
		UserID: userID.String(),
		Days:   days,
		Source: "referral_reward",
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode grant request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/entitlements/grants", bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build grant request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "entitlement service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("entitlement grant rejected with status %d", resp.StatusCode))
	}
	return nil
}
