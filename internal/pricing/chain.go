package pricing

import (
	"context"
	"log/slog"
	"strings"

	"freightquote/internal/domain"
	"freightquote/internal/freight"
	"freightquote/internal/rate"
)

// Tier names which source produced a Result.
type Tier string

const (
	TierRemote    Tier = "remote"
	TierLocal     Tier = "local"
	TierReference Tier = "reference"
	TierDefault   Tier = "default"
)

const (
	expeditedFactor    = 1.2
	referenceEconomy   = 0.95
	referenceExpedited = 1.1

	// DefaultEconomyPrice is used when no tier produced a price.
	DefaultEconomyPrice = 5000.0
)

// Result is the normalized output of the chain, whichever tier succeeded.
type Result struct {
	Tier      Tier                   `json:"tier"`
	Economy   float64                `json:"economyPrice"`
	Expedited float64                `json:"expeditedPrice"`
	Vehicle   domain.VehicleInfo     `json:"vehicleInfo"`
	Weight    domain.WeightBreakdown `json:"weightBreakdown"`
	Legs      []domain.VehicleLeg    `json:"legs,omitempty"`
}

// OK reports whether the result holds a usable price.
func (r Result) OK() bool { return r.Economy > 0 }

// Chain tries each pricing tier in priority order.
type Chain struct {
	remote          Pricer
	index           *rate.Index
	referenceVendor string
	logger          *slog.Logger
}

// NewChain builds a chain. remote may be nil to skip tier 1.
func NewChain(remote Pricer, index *rate.Index, referenceVendor string, logger *slog.Logger) *Chain {
	if index == nil {
		index = rate.DefaultIndex()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		remote:          remote,
		index:           index,
		referenceVendor: referenceVendor,
		logger:          logger.With("component", "pricing_chain"),
	}
}

// Index returns the rate table used by the local tier.
func (c *Chain) Index() *rate.Index { return c.index }

// Price runs the fallback chain. It never fails: the last tier is a fixed
// default.
func (c *Chain) Price(ctx context.Context, req Request) Result {
	if res, ok := c.fromRemote(ctx, req); ok {
		return res
	}
	if res, ok := c.fromIndex(req); ok {
		return res
	}
	return c.fromReference(req)
}

func (c *Chain) fromRemote(ctx context.Context, req Request) (Result, bool) {
	if c.remote == nil {
		return Result{}, false
	}
	rq, err := c.remote.Quote(ctx, req)
	if err != nil {
		c.logger.Warn("authoritative pricing unavailable, using rate table", "error", err)
		return Result{}, false
	}
	if rq.Price <= 0 {
		c.logger.Warn("authoritative pricing returned no price, using rate table")
		return Result{}, false
	}

	weight := req.Weight
	if rq.Weight != nil {
		weight = *rq.Weight
	}
	res := Result{
		Tier:      TierRemote,
		Economy:   domain.RoundTo10(rq.Price),
		Expedited: domain.RoundTo10(rq.Price * expeditedFactor),
		Weight:    weight,
		Legs:      rq.Legs,
	}
	if rq.Vehicle != nil {
		res.Vehicle = *rq.Vehicle
	} else {
		m := c.index.Lookup(min(weight.ChargeableWeightKg, freight.MaxVehicleCapacityKg), req.DistanceKm)
		res.Vehicle = domain.VehicleInfo{Type: m.VehicleType, LengthFt: m.LengthFt}
	}
	c.withLegs(&res, req.DistanceKm, rq.Price)
	return res, true
}

func (c *Chain) fromIndex(req Request) (Result, bool) {
	w := req.Weight.ChargeableWeightKg
	if w <= 0 {
		return Result{}, false
	}
	baseline := freight.LocalTotal(c.index, w, req.DistanceKm)
	if baseline <= 0 {
		return Result{}, false
	}
	m := c.index.Lookup(min(w, freight.MaxVehicleCapacityKg), req.DistanceKm)
	res := Result{
		Tier:      TierLocal,
		Economy:   domain.RoundTo10(baseline),
		Expedited: domain.RoundTo10(baseline * expeditedFactor),
		Vehicle:   domain.VehicleInfo{Type: m.VehicleType, LengthFt: m.LengthFt},
		Weight:    req.Weight,
	}
	c.withLegs(&res, req.DistanceKm, res.Economy)
	return res, true
}

func (c *Chain) fromReference(req Request) Result {
	res := Result{Weight: req.Weight}
	if ref, ok := c.referenceQuote(req.ReferenceQuotes); ok {
		res.Tier = TierReference
		res.Economy = domain.RoundTo10(ref.Total * referenceEconomy)
		res.Expedited = domain.RoundTo10(ref.Total * referenceExpedited)
		if ref.Vehicle != nil {
			res.Vehicle = *ref.Vehicle
		}
		c.logger.Info("priced from reference vendor", "vendor", ref.CompanyName, "reference_price", ref.Total)
	} else {
		res.Tier = TierDefault
		res.Economy = DefaultEconomyPrice
		res.Expedited = domain.RoundTo10(DefaultEconomyPrice * expeditedFactor)
		c.logger.Warn("no pricing source available, using default price")
	}
	c.withLegs(&res, req.DistanceKm, res.Economy)
	return res
}

func (c *Chain) referenceQuote(quotes []domain.Quote) (domain.Quote, bool) {
	if c.referenceVendor == "" {
		return domain.Quote{}, false
	}
	var best domain.Quote
	found := false
	for _, q := range quotes {
		if !strings.EqualFold(strings.TrimSpace(q.CompanyName), c.referenceVendor) || q.Total <= 0 {
			continue
		}
		if !found || q.Total < best.Total {
			best, found = q, true
		}
	}
	return best, found
}

// withLegs fills in vehicle legs for oversized loads that the source did
// not already split. Legs sum to total, the unrounded tier price.
func (c *Chain) withLegs(res *Result, distanceKm, total float64) {
	if len(res.Legs) > 0 || res.Weight.ChargeableWeightKg <= freight.MaxVehicleCapacityKg {
		return
	}
	res.Legs = freight.SplitLegs(c.index, res.Weight.ChargeableWeightKg, distanceKm, total)
}
