package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/logger"
)

const defaultTimeout = 2 * time.Second

// Client resolves a country code for an IP address through an external
// lookup service. Resolution is best-effort: failures are logged at debug
// level and surface as a nil country, never as an error.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a resolver against the configured endpoint.
func NewClient(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type lookupResponse struct {
	Country string `json:"country"`
}

// CountryCode returns the ISO 3166-1 alpha-2 country code for the address,
// or nil when the address is private, the service is unreachable, or the
// response is unusable.
func (c *Client) CountryCode(ctx context.Context, ip string) *string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return nil
	}

	url := fmt.Sprintf("%s/%s", c.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("geoip lookup failed",
			zap.String("ip", logger.MaskIP(ip)),
			zap.Error(err),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("geoip lookup returned non-200",
			zap.String("ip", logger.MaskIP(ip)),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	if payload.Country == "" {
		return nil
	}

	return &payload.Country
}

var _ port.GeoIPResolver = (*Client)(nil)
