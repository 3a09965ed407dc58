// Package pricing produces a baseline price for a shipment by trying the
// authoritative pricing service, then the local rate table, then a
// reference vendor's quote.
package pricing

import (
	"context"
	"strings"
	"time"

	"freightquote/internal/domain"
)

// Request is what every pricing tier sees.
type Request struct {
	Weight          domain.WeightBreakdown
	DistanceKm      float64
	Shipment        domain.Shipment
	ReferenceQuotes []domain.Quote
}

// Remote is a normalized answer from the authoritative pricing service.
type Remote struct {
	Price   float64
	Weight  *domain.WeightBreakdown
	Vehicle *domain.VehicleInfo
	Legs    []domain.VehicleLeg
}

// Pricer is the authoritative pricing tier.
type Pricer interface {
	Quote(ctx context.Context, req Request) (Remote, error)
}

// NewByName returns the tier-1 pricer for a provider name. "remote" uses the
// HTTP pricing service; "local" and "" disable tier 1 so the chain starts
// at the rate table. Unknown names fall back to local.
func NewByName(name, baseURL string, timeout time.Duration) Pricer {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "remote":
		if strings.TrimSpace(baseURL) == "" {
			return nil
		}
		return NewClient(baseURL, timeout)
	default:
		return nil
	}
}
