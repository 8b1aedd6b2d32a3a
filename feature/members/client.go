package members

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hikvision-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// snippetLimit caps how much of an invalid body ends up in errors.
const snippetLimit = 500

// Client fetches members from the directory API.
// It implements reconcile.MemberSource.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

var _ reconcile.MemberSource = (*Client)(nil)

// NewClient creates a directory client.
// With a token URL configured, requests are authorized with OAuth2 client credentials.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.UsesOAuth2() {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.ScopeList(),
		}
		// Token requests reuse the timeout-bound client.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		httpClient = cc.Client(ctx)
		httpClient.Timeout = timeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchMembers retrieves the full member list.
func (c *Client) FetchMembers(ctx context.Context) ([]reconcile.Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("directory API failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory response: %w", err)
	}

	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil || !payload.Success || payload.Data == nil {
		return nil, fmt.Errorf("directory API returned invalid format: %s...", snippet(body))
	}

	members := make([]reconcile.Member, 0, len(payload.Data))
	for _, g := range payload.Data {
		members = append(members, g.ToMember())
	}

	c.logger.Debug("Fetched members", zap.Int("count", len(members)))
	return members, nil
}

func snippet(body []byte) string {
	if len(body) > snippetLimit {
		body = body[:snippetLimit]
	}
	return string(body)
}
