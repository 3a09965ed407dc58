package freight

import (
	"math"
	"testing"

	"freightquote/internal/domain"
	"freightquote/internal/rate"
)

func TestResolveWeight_TakesMax(t *testing.T) {
	cases := [][2]float64{{0, 0}, {100, 50}, {50, 100}, {18000, 18000.5}, {123.4, 0}}
	for _, c := range cases {
		wb := ResolveWeight(c[0], c[1])
		if wb.ChargeableWeightKg != math.Max(c[0], c[1]) {
			t.Fatalf("ResolveWeight(%v, %v) = %v", c[0], c[1], wb.ChargeableWeightKg)
		}
		if wb.ActualWeightKg != c[0] || wb.VolumetricWeightKg != c[1] {
			t.Fatalf("inputs not preserved: %+v", wb)
		}
	}
}

func TestShipmentWeight_VolumetricWins(t *testing.T) {
	s := domain.Shipment{Boxes: []domain.BoxSpec{
		{Count: 10, LengthCm: 100, WidthCm: 100, HeightCm: 100, WeightKg: 20},
	}}
	wb := ShipmentWeight(s, 0)
	// 10 * 1,000,000 cm³ / 5000 = 2000 kg volumetric vs 200 kg actual
	if wb.ActualWeightKg != 200 || wb.VolumetricWeightKg != 2000 || wb.ChargeableWeightKg != 2000 {
		t.Fatalf("unexpected breakdown: %+v", wb)
	}
}

func TestSplitLegs_SingleVehicle(t *testing.T) {
	legs := SplitLegs(rate.DefaultIndex(), 900, 100, 4300)
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(legs))
	}
	l := legs[0]
	if l.VehicleType != rate.TataAce || l.PriceUnits != 4300 || l.CarryingWeightKg != 900 || l.Sequence != 1 {
		t.Fatalf("unexpected leg: %+v", l)
	}
}

func TestSplitLegs_25TonnesOver800Km(t *testing.T) {
	ix := rate.DefaultIndex()
	total := LocalTotal(ix, 25000, 800)
	if total != 108000+55500 {
		t.Fatalf("unexpected local total: %v", total)
	}
	legs := SplitLegs(ix, 25000, 800, total)
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}
	if legs[0].VehicleType != rate.Container32FtMXL || legs[0].CarryingWeightKg != 18000 {
		t.Fatalf("unexpected first leg: %+v", legs[0])
	}
	if legs[1].VehicleType != rate.Eicher19Ft || legs[1].CarryingWeightKg != 7000 {
		t.Fatalf("unexpected second leg: %+v", legs[1])
	}
	if legs[0].PriceUnits != math.Round(total*18000/25000) {
		t.Fatalf("unexpected proportional price: %v", legs[0].PriceUnits)
	}
	if legs[0].PriceUnits+legs[1].PriceUnits != total {
		t.Fatalf("leg prices %v + %v do not reconcile to %v", legs[0].PriceUnits, legs[1].PriceUnits, total)
	}
}

func TestSplitLegs_ReconcilesForAnyWeightAndPrice(t *testing.T) {
	ix := rate.DefaultIndex()
	weights := []float64{18000.5, 18001, 25000, 36000, 36001, 50000, 99999, 123456.5}
	prices := []float64{1, 7, 999, 10000, 163500, 250001, 1234567}
	for _, w := range weights {
		for _, p := range prices {
			legs := SplitLegs(ix, w, 800, p)
			if len(legs) != LegCount(w) {
				t.Fatalf("w=%v: expected %d legs, got %d", w, LegCount(w), len(legs))
			}
			var sw, sp float64
			for i, l := range legs {
				if l.Sequence != i+1 {
					t.Fatalf("w=%v: leg %d has sequence %d", w, i, l.Sequence)
				}
				if i < len(legs)-1 && l.CarryingWeightKg != MaxVehicleCapacityKg {
					t.Fatalf("w=%v: non-final leg carries %v", w, l.CarryingWeightKg)
				}
				sw += l.CarryingWeightKg
				sp += l.PriceUnits
			}
			if sw != w {
				t.Fatalf("w=%v p=%v: weights sum to %v", w, p, sw)
			}
			if sp != p {
				t.Fatalf("w=%v p=%v: prices sum to %v", w, p, sp)
			}
		}
	}
}

func TestSplitLegs_ExactMultipleFillsLastLeg(t *testing.T) {
	legs := SplitLegs(rate.DefaultIndex(), 36000, 200, 95000)
	if len(legs) != 2 || legs[1].CarryingWeightKg != 18000 {
		t.Fatalf("unexpected legs: %+v", legs)
	}
	if legs[1].VehicleType != rate.Container32FtMXL {
		t.Fatalf("expected MXL for a full last leg, got %s", legs[1].VehicleType)
	}
}

func TestTransitDays(t *testing.T) {
	if d := TransitDays(800, 400); d != 3 {
		t.Fatalf("expected 3 days, got %d", d)
	}
	if d := TransitDays(0, 400); d != 1 {
		t.Fatalf("expected 1 day for zero distance, got %d", d)
	}
}
