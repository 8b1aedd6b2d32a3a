package hikvision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hikvision-sync/core/reconcile"

	"github.com/google/uuid"
	"github.com/icholy/digest"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxSearchPages stops a misbehaving reader from paging forever.
const maxSearchPages = 10000

// Device is an ISAPI client for a single reader.
type Device struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	logger     *zap.Logger
}

// NewDevice creates a client for the reader at baseURL using digest authentication.
func NewDevice(baseURL string, cfg Config, logger *zap.Logger) *Device {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 30
	}

	return &Device{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &digest.Transport{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
		limiter:  limiter,
		pageSize: pageSize,
		logger:   logger.With(zap.String("reader", baseURL)),
	}
}

// URL returns the reader base URL.
func (d *Device) URL() string {
	return d.baseURL
}

// Upsert creates or updates a user on the reader.
func (d *Device) Upsert(ctx context.Context, rec reconcile.DeviceRecord) error {
	payload := UserInfoRequest{UserInfo: toUserInfo(rec)}

	d.logger.Debug("Pushing user", zap.String("employee_no", rec.EmployeeNo), zap.String("name", rec.Name))

	body, status, err := d.do(ctx, http.MethodPut, setUpPath, payload)
	if err != nil {
		return err
	}
	if err := checkStatus(status, body); err != nil {
		return fmt.Errorf("reader %s rejected user %s: %w", d.baseURL, rec.EmployeeNo, err)
	}
	return nil
}

// ListIdentities pages through the reader users and returns their employee numbers.
func (d *Device) ListIdentities(ctx context.Context) (reconcile.Roster, error) {
	roster := reconcile.Roster{}
	searchID := uuid.NewString()
	position := 0

	for page := 0; page < maxSearchPages; page++ {
		req := SearchRequest{UserInfoSearchCond: SearchCond{
			SearchID:             searchID,
			SearchResultPosition: position,
			MaxResults:           d.pageSize,
		}}

		body, status, err := d.do(ctx, http.MethodPost, searchPath, req)
		if err != nil {
			return nil, err
		}
		if err := checkStatus(status, body); err != nil {
			return nil, fmt.Errorf("reader %s search failed: %w", d.baseURL, err)
		}

		var resp SearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("reader %s returned invalid search response: %w", d.baseURL, err)
		}
		result := resp.UserInfoSearch

		for _, u := range result.UserInfo {
			if key := strings.TrimSpace(u.EmployeeNo); key != "" {
				roster[key] = struct{}{}
			}
		}

		position += len(result.UserInfo)
		if result.ResponseStatusStrg != SearchStatusMore || len(result.UserInfo) == 0 || position >= result.TotalMatches {
			d.logger.Debug("Read reader roster", zap.Int("count", len(roster)), zap.Int("pages", page+1))
			return roster, nil
		}
	}

	return nil, fmt.Errorf("reader %s search did not finish after %d pages", d.baseURL, maxSearchPages)
}

func (d *Device) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("reader %s request failed: %w", d.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reader %s: failed to read response: %w", d.baseURL, err)
	}
	return body, resp.StatusCode, nil
}

// checkStatus turns an HTTP status and optional ISAPI ResponseStatus body into an error.
func checkStatus(status int, body []byte) error {
	var rs ResponseStatus
	decoded := json.Unmarshal(body, &rs) == nil

	if status < 200 || status > 299 {
		if decoded && rs.StatusString != "" {
			return fmt.Errorf("HTTP %d: %s", status, rs)
		}
		return fmt.Errorf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	if decoded && !rs.OK() {
		return fmt.Errorf("status %d: %s", rs.StatusCode, rs)
	}
	return nil
}
