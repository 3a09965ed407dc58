package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freightquote/internal/domain"
)

// Client calls the authoritative pricing service over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	normalizer Normalizer
}

// NewClient returns a Client; every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		normalizer: &DefaultNormalizer{},
	}
}

type priceRequest struct {
	ChargeableWeightKg float64          `json:"chargeableWeightKg"`
	ActualWeightKg     float64          `json:"actualWeightKg"`
	VolumetricWeightKg float64          `json:"volumetricWeightKg"`
	DistanceKm         float64          `json:"distanceKm"`
	Boxes              []domain.BoxSpec `json:"boxes"`
}

// Quote asks the service for a price. Any transport, status or payload
// problem is returned as an error; the caller decides how to fall back.
func (c *Client) Quote(ctx context.Context, req Request) (Remote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(priceRequest{
		ChargeableWeightKg: req.Weight.ChargeableWeightKg,
		ActualWeightKg:     req.Weight.ActualWeightKg,
		VolumetricWeightKg: req.Weight.VolumetricWeightKg,
		DistanceKm:         req.DistanceKm,
		Boxes:              req.Shipment.Boxes,
	})
	if err != nil {
		return Remote{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/price", bytes.NewReader(body))
	if err != nil {
		return Remote{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Remote{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Remote{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Remote{}, fmt.Errorf("reading response: %w", err)
	}
	out, err := c.normalizer.Normalize(raw)
	if err != nil {
		return Remote{}, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}
