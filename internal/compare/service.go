// Package compare runs one quote comparison end to end.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"freightquote/internal/cache"
	"freightquote/internal/distance"
	"freightquote/internal/domain"
	"freightquote/internal/events"
	"freightquote/internal/freight"
	"freightquote/internal/pricing"
	"freightquote/internal/quote"
	"freightquote/internal/vendor"
)

var (
	// ErrEmptyShipment is returned when a request has no boxes.
	ErrEmptyShipment = errors.New("shipment has no boxes")
	// ErrInvalidShipment is returned for negative or zero-count box groups.
	ErrInvalidShipment = errors.New("invalid shipment")
)

const publishTimeout = 2 * time.Second

// Request is one comparison as submitted by the form.
type Request struct {
	OriginPin      string           `json:"originPin"`
	DestinationPin string           `json:"destinationPin"`
	Boxes          []domain.BoxSpec `json:"boxes"`
	Options        quote.Options    `json:"options"`
}

func (r Request) validate() error {
	if len(r.Boxes) == 0 {
		return ErrEmptyShipment
	}
	for i, b := range r.Boxes {
		if b.Count <= 0 || b.WeightKg < 0 || b.LengthCm < 0 || b.WidthCm < 0 || b.HeightCm < 0 {
			return fmt.Errorf("%w: box %d", ErrInvalidShipment, i+1)
		}
	}
	return nil
}

// Response is what the caller renders.
type Response struct {
	Key         string                 `json:"key"`
	Cached      bool                   `json:"cached"`
	DistanceKm  float64                `json:"distanceKm"`
	Weight      domain.WeightBreakdown `json:"weightBreakdown"`
	PricingTier string                 `json:"pricingTier,omitempty"`
	Visible     []domain.Quote         `json:"visible"`
	Hidden      []domain.Quote         `json:"hidden"`
	Ranked      []domain.Quote         `json:"ranked"`
	BestValueID string                 `json:"bestValueId,omitempty"`
	FastestID   string                 `json:"fastestId,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Deps wires a Service.
type Deps struct {
	Cache             *cache.Cache
	Distance          distance.Resolver
	Vendors           vendor.Source
	Chain             *pricing.Chain
	Aggregator        *quote.Aggregator
	Publisher         events.Publisher
	VolumetricDivisor float64
	Logger            *slog.Logger
}

// Service answers compare requests. Only caller input errors are returned;
// every collaborator failure degrades to a lower-fidelity result.
type Service struct {
	cache      *cache.Cache
	distance   distance.Resolver
	vendors    vendor.Source
	chain      *pricing.Chain
	aggregator *quote.Aggregator
	publisher  events.Publisher
	divisor    float64
	logger     *slog.Logger
}

func NewService(d Deps) *Service {
	s := &Service{
		cache:      d.Cache,
		distance:   d.Distance,
		vendors:    d.Vendors,
		chain:      d.Chain,
		aggregator: d.Aggregator,
		publisher:  d.Publisher,
		divisor:    d.VolumetricDivisor,
		logger:     d.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "compare_service")
	if s.cache == nil {
		s.cache = cache.New(cache.NewMemoryBackend(), cache.NewMemoryBackend(), cache.DefaultTTL, s.logger)
	}
	if s.distance == nil {
		s.distance = distance.Fixed(distance.FallbackKm)
	}
	if s.vendors == nil {
		s.vendors = vendor.StaticSource{}
	}
	if s.chain == nil {
		s.chain = pricing.NewChain(nil, nil, "", s.logger)
	}
	if s.aggregator == nil {
		s.aggregator = quote.NewAggregator(quote.DefaultOverlays("")...)
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	return s
}

// Compare returns the ranked quotes for req, from cache when possible.
func (s *Service) Compare(ctx context.Context, req Request) (Response, error) {
	if err := req.validate(); err != nil {
		return Response{}, err
	}
	req.Options.SortBy = quote.ParseSortBy(string(req.Options.SortBy))
	key, err := cache.MakeKey(req)
	if err != nil {
		return Response{}, fmt.Errorf("cache key: %w", err)
	}
	form := s.saveRequestForm(ctx, req)

	if entry, ok := s.cache.ReadByKey(ctx, key); ok {
		s.logger.Debug("compare served from cache", "key", key)
		resp := s.fromEntry(entry)
		resp.Cached = true
		return resp, nil
	}

	start := time.Now()
	shipment := domain.Shipment{Boxes: req.Boxes}
	km := s.distance.DistanceKm(ctx, req.OriginPin, req.DestinationPin)
	weight := freight.ShipmentWeight(shipment, s.divisor)
	lane := vendor.Lane{
		OriginPin:      req.OriginPin,
		DestinationPin: req.DestinationPin,
		WeightKg:       weight.ChargeableWeightKg,
		DistanceKm:     km,
	}
	contracted, openMarket := s.vendorQuotes(ctx, lane)

	priced := s.chain.Price(ctx, pricing.Request{
		Weight:          weight,
		DistanceKm:      km,
		Shipment:        shipment,
		ReferenceQuotes: append(append([]domain.Quote(nil), contracted...), openMarket...),
	})
	// Too-light shipments get no synthetic quotes, placeholder included.
	tooLight := priced.Weight.ChargeableWeightKg < pricing.MinServiceableWeightKg
	in := quote.Input{
		Contracted:     contracted,
		OpenMarket:     openMarket,
		BaselineFailed: priced.Tier == pricing.TierDefault && !tooLight,
		DistanceKm:     km,
		OriginPin:      req.OriginPin,
		Options:        req.Options,
	}
	if !in.BaselineFailed {
		in.Baselines = pricing.BuildBaselines(priced, km)
	}
	agg := s.aggregator.Aggregate(in)

	params, _ := json.Marshal(req)
	entry := cache.Entry{
		Params:       params,
		Visible:      agg.Visible,
		Hidden:       agg.Hidden,
		BestValueID:  agg.BestValueID,
		FastestID:    agg.FastestID,
		DistanceKm:   km,
		Weight:       priced.Weight,
		PricingTier:  string(priced.Tier),
		FormSnapshot: form,
	}
	written, err := s.cache.Write(ctx, key, entry)
	if err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}

	resp := Response{
		Key:         key,
		DistanceKm:  km,
		Weight:      priced.Weight,
		PricingTier: string(priced.Tier),
		Visible:     agg.Visible,
		Hidden:      agg.Hidden,
		Ranked:      agg.Ranked,
		BestValueID: agg.BestValueID,
		FastestID:   agg.FastestID,
		CreatedAt:   time.UnixMilli(written.CreatedAtEpochMs).UTC(),
	}
	s.logger.Info("compare computed",
		"key", key,
		"distance_km", km,
		"chargeable_kg", priced.Weight.ChargeableWeightKg,
		"pricing_tier", priced.Tier,
		"quotes", len(agg.Ranked),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.publish(ctx, req, resp)
	return resp, nil
}

// vendorQuotes fetches both lists concurrently. A failing source yields an
// empty list.
func (s *Service) vendorQuotes(ctx context.Context, lane vendor.Lane) (contracted, openMarket []domain.Quote) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.vendors.Contracted(gctx, lane)
		if err != nil {
			s.logger.Warn("contracted quotes unavailable", "error", err)
			return nil
		}
		contracted = q
		return nil
	})
	g.Go(func() error {
		q, err := s.vendors.OpenMarket(gctx, lane)
		if err != nil {
			s.logger.Warn("open-market quotes unavailable", "error", err)
			return nil
		}
		openMarket = q
		return nil
	})
	_ = g.Wait()
	return contracted, openMarket
}

func (s *Service) publish(ctx context.Context, req Request, resp Response) {
	ev := events.CompareCompleted{
		Key:            resp.Key,
		OriginPin:      req.OriginPin,
		DestinationPin: req.DestinationPin,
		ChargeableKg:   resp.Weight.ChargeableWeightKg,
		DistanceKm:     resp.DistanceKm,
		PricingTier:    resp.PricingTier,
		QuoteCount:     len(resp.Ranked),
		BestValueID:    resp.BestValueID,
		At:             resp.CreatedAt,
	}
	for _, q := range resp.Ranked {
		if q.ID == resp.BestValueID {
			ev.BestValueTotal = q.Total
		}
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, resp.Key, ev); err != nil {
		s.logger.Warn("compare event not published", "key", resp.Key, "error", err)
	}
}

func (s *Service) saveRequestForm(ctx context.Context, req Request) cache.FormSnapshot {
	patch := cache.FormSnapshot{}
	for field, v := range map[string]any{
		"originPin":      req.OriginPin,
		"destinationPin": req.DestinationPin,
		"boxes":          req.Boxes,
		"options":        req.Options,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		patch[field] = b
	}
	merged, err := s.cache.SaveFormSnapshot(ctx, patch)
	if err != nil {
		s.logger.Warn("form snapshot not saved", "error", err)
		return patch
	}
	return merged
}

func (s *Service) fromEntry(e cache.Entry) Response {
	var req Request
	if len(e.Params) > 0 {
		if err := json.Unmarshal(e.Params, &req); err != nil {
			s.logger.Warn("cached params unreadable", "key", e.Key, "error", err)
		}
	}
	return Response{
		Key:         e.Key,
		DistanceKm:  e.DistanceKm,
		Weight:      e.Weight,
		PricingTier: e.PricingTier,
		Visible:     e.Visible,
		Hidden:      e.Hidden,
		Ranked:      quote.Merge(e.Visible, e.Hidden, quote.ParseSortBy(string(req.Options.SortBy))),
		BestValueID: e.BestValueID,
		FastestID:   e.FastestID,
		CreatedAt:   time.UnixMilli(e.CreatedAtEpochMs).UTC(),
	}
}

// Lookup returns a cached comparison by key.
func (s *Service) Lookup(ctx context.Context, key string) (Response, bool) {
	e, ok := s.cache.ReadByKey(ctx, key)
	if !ok {
		return Response{}, false
	}
	resp := s.fromEntry(e)
	resp.Cached = true
	return resp, true
}

// Last returns the most recently written comparison, if still cached.
func (s *Service) Last(ctx context.Context) (Response, bool) {
	key, ok := s.cache.ReadLastKey(ctx)
	if !ok {
		return Response{}, false
	}
	return s.Lookup(ctx, key)
}

// Form returns the saved form snapshot.
func (s *Service) Form(ctx context.Context) (cache.FormSnapshot, bool) {
	return s.cache.LoadFormSnapshot(ctx)
}

// SaveForm merges patch into the saved form snapshot.
func (s *Service) SaveForm(ctx context.Context, patch cache.FormSnapshot) (cache.FormSnapshot, error) {
	return s.cache.SaveFormSnapshot(ctx, patch)
}
