package rate

import "testing"

func TestLookup_TataAceShortHaul(t *testing.T) {
	m := DefaultIndex().Lookup(900, 100)
	if m.VehicleType != TataAce {
		t.Fatalf("expected %s, got %s", TataAce, m.VehicleType)
	}
	if m.Price != 4300 {
		t.Fatalf("expected price 4300, got %v", m.Price)
	}
	if m.LengthFt != 7 || m.MaxCapacityKg != 1000 {
		t.Fatalf("unexpected vehicle detail: %+v", m)
	}
}

func TestLookup_OverlappingEntryFirstMatch(t *testing.T) {
	ix := DefaultIndex()
	// 700 kg fits both Tata Ace entries; within 300 km the first wins.
	if m := ix.Lookup(700, 80); m.Price != 4300 {
		t.Fatalf("expected first Tata Ace entry (4300), got %v", m.Price)
	}
	// Beyond the first envelope, the second entry matches on weight+distance.
	if m := ix.Lookup(700, 450); m.Price != 15500 || m.VehicleType != TataAce {
		t.Fatalf("expected second Tata Ace entry (15500), got %+v", m)
	}
}

func TestLookup_WeightOnlyFallbackClampsToFarthestRow(t *testing.T) {
	// 900 kg at 450 km: no envelope matches, first weight match is Tata Ace
	// with a 300 km envelope; distance clamps to its farthest row.
	m := DefaultIndex().Lookup(900, 450)
	if m.VehicleType != TataAce || m.Price != 9800 {
		t.Fatalf("expected clamped Tata Ace 9800, got %+v", m)
	}
}

func TestLookup_DefaultsToLightestClass(t *testing.T) {
	m := DefaultIndex().Lookup(40000, 100)
	if m.VehicleType != TataAce {
		t.Fatalf("expected lightest class for unmatched weight, got %s", m.VehicleType)
	}
	if m.Price != 4300 {
		t.Fatalf("unexpected price: %v", m.Price)
	}
}

func TestLookup_EmptyIndexReturnsZero(t *testing.T) {
	m := NewIndex(nil).Lookup(900, 100)
	if m.Price != 0 || m.VehicleType != "" {
		t.Fatalf("expected zero match, got %+v", m)
	}
}

func TestLookup_StrictlyInsideRowsIsDeterministic(t *testing.T) {
	ix := DefaultIndex()
	for _, b := range ix.Brackets() {
		w := (b.Weight.Min + b.Weight.Max) / 2
		for _, r := range b.Rows {
			d := (r.Distance.Min + r.Distance.Max) / 2
			// only check pairs where this bracket is the first full match
			first, _ := ix.bracketFor(w, d)
			if first.VehicleType != b.VehicleType || first.Weight != b.Weight || first.Distance != b.Distance {
				continue
			}
			for i := 0; i < 3; i++ {
				if got := ix.Lookup(w, d).Price; got != r.Price {
					t.Fatalf("%s w=%v d=%v: expected %v, got %v", b.VehicleType, w, d, r.Price, got)
				}
			}
		}
	}
}

func TestLookup_ContainerAndEicher(t *testing.T) {
	ix := DefaultIndex()
	if m := ix.Lookup(18000, 800); m.VehicleType != Container32FtMXL || m.Price != 108000 {
		t.Fatalf("unexpected 18t match: %+v", m)
	}
	if m := ix.Lookup(7000, 800); m.VehicleType != Eicher19Ft || m.Price != 55500 {
		t.Fatalf("unexpected 7t match: %+v", m)
	}
}

func TestDefaultIndexValidates(t *testing.T) {
	if err := DefaultIndex().Validate(); err != nil {
		t.Fatalf("built-in table invalid: %v", err)
	}
	bad := NewIndex([]VehicleBracket{{VehicleType: "x", Weight: Range{10, 1}}})
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for inverted range")
	}
}
