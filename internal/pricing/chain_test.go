package pricing

import (
	"context"
	"errors"
	"testing"

	"freightquote/internal/domain"
	"freightquote/internal/freight"
	"freightquote/internal/rate"
)

type fakePricer struct {
	res    Remote
	err    error
	called int
}

func (f *fakePricer) Quote(ctx context.Context, req Request) (Remote, error) {
	f.called++
	return f.res, f.err
}

func weightOf(kg float64) domain.WeightBreakdown {
	return freight.ResolveWeight(kg, 0)
}

func TestChain_RemoteWins(t *testing.T) {
	remoteWeight := domain.WeightBreakdown{ActualWeightKg: 950, VolumetricWeightKg: 1000, ChargeableWeightKg: 1000}
	fp := &fakePricer{res: Remote{
		Price:   4444,
		Weight:  &remoteWeight,
		Vehicle: &domain.VehicleInfo{Type: "Pickup 8 ft", LengthFt: 8},
	}}
	c := NewChain(fp, nil, "", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(900), DistanceKm: 100})
	if res.Tier != TierRemote {
		t.Fatalf("expected remote tier, got %s", res.Tier)
	}
	if res.Economy != 4440 || res.Expedited != 5330 {
		t.Fatalf("unexpected prices: economy=%v expedited=%v", res.Economy, res.Expedited)
	}
	if res.Weight != remoteWeight {
		t.Fatalf("remote weight breakdown should supersede local: %+v", res.Weight)
	}
	if res.Vehicle.Type != "Pickup 8 ft" {
		t.Fatalf("unexpected vehicle: %+v", res.Vehicle)
	}
}

func TestChain_RemoteErrorFallsBackToIndexWithoutRetry(t *testing.T) {
	fp := &fakePricer{err: errors.New("connection refused")}
	c := NewChain(fp, rate.DefaultIndex(), "", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(900), DistanceKm: 100})
	if fp.called != 1 {
		t.Fatalf("expected exactly one remote attempt, got %d", fp.called)
	}
	if res.Tier != TierLocal {
		t.Fatalf("expected local tier, got %s", res.Tier)
	}
	if res.Economy != 4300 || res.Expedited != 5160 {
		t.Fatalf("unexpected prices: economy=%v expedited=%v", res.Economy, res.Expedited)
	}
	if res.Vehicle.Type != rate.TataAce {
		t.Fatalf("unexpected vehicle: %+v", res.Vehicle)
	}
	if len(res.Legs) != 0 {
		t.Fatalf("single-vehicle loads carry no legs, got %d", len(res.Legs))
	}
}

func TestChain_OversizedLoadGetsReconciledLegs(t *testing.T) {
	c := NewChain(nil, nil, "", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(25000), DistanceKm: 800})
	if res.Tier != TierLocal || res.Economy != 163500 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(res.Legs))
	}
	if res.Legs[0].PriceUnits+res.Legs[1].PriceUnits != res.Economy {
		t.Fatalf("legs do not reconcile to %v: %+v", res.Economy, res.Legs)
	}
	if res.Vehicle.Type != rate.Container32FtMXL {
		t.Fatalf("unexpected headline vehicle: %+v", res.Vehicle)
	}
}

func TestChain_RemoteLegsReconcileToAuthoritativePrice(t *testing.T) {
	fp := &fakePricer{res: Remote{Price: 163457}}
	c := NewChain(fp, nil, "", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(25000), DistanceKm: 800})
	if res.Tier != TierRemote || res.Economy != 163460 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(res.Legs))
	}
	if sum := res.Legs[0].PriceUnits + res.Legs[1].PriceUnits; sum != 163457 {
		t.Fatalf("legs sum to %v, want the remote price 163457", sum)
	}
}

func TestChain_ReferenceVendorHeuristic(t *testing.T) {
	c := NewChain(nil, rate.NewIndex(nil), "Northline Cargo", nil)
	refs := []domain.Quote{
		{CompanyName: "Other", Total: 100},
		{CompanyName: "northline cargo", Total: 12345},
	}
	res := c.Price(context.Background(), Request{Weight: weightOf(900), DistanceKm: 100, ReferenceQuotes: refs})
	if res.Tier != TierReference {
		t.Fatalf("expected reference tier, got %s", res.Tier)
	}
	// 12345*0.95 = 11727.75 -> 11730; 12345*1.1 = 13579.5 -> 13580
	if res.Economy != 11730 || res.Expedited != 13580 {
		t.Fatalf("unexpected prices: economy=%v expedited=%v", res.Economy, res.Expedited)
	}
}

func TestChain_ZeroWeightSkipsIndex(t *testing.T) {
	c := NewChain(nil, nil, "Northline Cargo", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(0), DistanceKm: 100})
	if res.Tier != TierDefault {
		t.Fatalf("expected default tier, got %s", res.Tier)
	}
	if res.Economy != DefaultEconomyPrice || res.Expedited != 6000 {
		t.Fatalf("unexpected default prices: %+v", res)
	}
}

func TestBuildBaselines(t *testing.T) {
	res := Result{Tier: TierLocal, Economy: 4300, Expedited: 5160, Weight: weightOf(900)}
	b := BuildBaselines(res, 100)
	if b.Generic == nil || b.Carrier == nil {
		t.Fatalf("expected both baselines")
	}
	if b.Generic.Total != 4300 || b.Carrier.Total != 5160 {
		t.Fatalf("unexpected baseline prices: %v / %v", b.Generic.Total, b.Carrier.Total)
	}
	if b.Generic.Source != domain.SourceBaseline || b.Generic.IsTiedUp {
		t.Fatalf("baselines are untied open-market quotes: %+v", b.Generic)
	}
	if len(b.Quotes()) != 2 {
		t.Fatalf("expected 2 quotes")
	}
}

func TestBuildBaselines_TooLight(t *testing.T) {
	res := Result{Tier: TierLocal, Economy: 2800, Expedited: 3360, Weight: weightOf(499)}
	if q := BuildBaselines(res, 30).Quotes(); len(q) != 0 {
		t.Fatalf("expected no baselines under 500 kg, got %d", len(q))
	}
}

func TestBuildBaselines_LegsReconcileToEachPrice(t *testing.T) {
	c := NewChain(nil, nil, "", nil)
	res := c.Price(context.Background(), Request{Weight: weightOf(25000), DistanceKm: 800})
	b := BuildBaselines(res, 800)
	for _, q := range b.Quotes() {
		var sum float64
		for _, l := range q.Legs {
			sum += l.PriceUnits
		}
		if sum != q.Total {
			t.Fatalf("%s legs sum to %v, want %v", q.CompanyName, sum, q.Total)
		}
	}
}

func TestNewByName(t *testing.T) {
	if p := NewByName("remote", "http://pricing.local", 0); p == nil {
		t.Fatalf("expected remote pricer")
	} else if _, ok := p.(*Client); !ok {
		t.Fatalf("expected *Client from NewByName('remote')")
	}
	if p := NewByName("local", "http://pricing.local", 0); p != nil {
		t.Fatalf("expected nil pricer for local provider")
	}
	if p := NewByName("remote", "", 0); p != nil {
		t.Fatalf("expected nil pricer without base URL")
	}
}
