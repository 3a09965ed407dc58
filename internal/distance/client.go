// Package distance resolves road distance between two postal codes.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FallbackKm is used whenever the distance service cannot answer.
const FallbackKm = 500.0

// Resolver returns a road distance in kilometres. Implementations never fail.
type Resolver interface {
	DistanceKm(ctx context.Context, origin, destination string) float64
}

// Client calls the distance service over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client. An empty baseURL always yields FallbackKm.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger.With("component", "distance_client"),
	}
}

type apiResponse struct {
	DistanceKm *float64 `json:"distanceKm"`
	Distance   *float64 `json:"distance"`
	Error      string   `json:"error,omitempty"`
}

// DistanceKm asks the service once; any failure returns FallbackKm.
func (c *Client) DistanceKm(ctx context.Context, origin, destination string) float64 {
	km, err := c.fetch(ctx, origin, destination)
	if err != nil {
		c.logger.Warn("distance lookup failed, using fallback",
			"origin", origin,
			"destination", destination,
			"fallback_km", FallbackKm,
			"error", err,
		)
		return FallbackKm
	}
	return km
}

func (c *Client) fetch(ctx context.Context, origin, destination string) (float64, error) {
	if c.baseURL == "" {
		return 0, fmt.Errorf("distance service not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	reqURL := fmt.Sprintf("%s/distance?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	if body.Error != "" {
		return 0, fmt.Errorf("API error: %s", body.Error)
	}
	km := body.DistanceKm
	if km == nil {
		km = body.Distance
	}
	if km == nil || *km <= 0 {
		return 0, fmt.Errorf("no distance in response")
	}
	return *km, nil
}

// Fixed always answers with the same distance. Useful offline and in tests.
type Fixed float64

func (f Fixed) DistanceKm(ctx context.Context, origin, destination string) float64 {
	return float64(f)
}
