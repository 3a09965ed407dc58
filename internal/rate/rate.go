package rate

import (
	"errors"
	"fmt"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// PricingRow prices one distance sub-range of a bracket.
type PricingRow struct {
	Distance Range   `json:"distanceRange"`
	Price    float64 `json:"price"`
}

// VehicleBracket maps a vehicle class and weight range to distance-tiered prices.
type VehicleBracket struct {
	VehicleType string       `json:"vehicleType"`
	Weight      Range        `json:"weightRange"`
	Distance    Range        `json:"distanceRange"`
	LengthFt    float64      `json:"vehicleLengthFt"`
	Rows        []PricingRow `json:"pricingRows"`
}

// Match is the result of a bracket lookup. A zero Price means no data.
type Match struct {
	Price         float64 `json:"price"`
	VehicleType   string  `json:"vehicleType"`
	LengthFt      float64 `json:"vehicleLengthFt"`
	MaxCapacityKg float64 `json:"maxCapacityKg"`
}

// Index is an ordered, read-only list of brackets. Lookups resolve
// overlapping entries by first match in table order.
type Index struct {
	brackets []VehicleBracket
}

// NewIndex copies brackets into a new Index, preserving order.
func NewIndex(brackets []VehicleBracket) *Index {
	cp := make([]VehicleBracket, len(brackets))
	copy(cp, brackets)
	return &Index{brackets: cp}
}

// Brackets returns a copy of the table.
func (ix *Index) Brackets() []VehicleBracket {
	cp := make([]VehicleBracket, len(ix.brackets))
	copy(cp, ix.brackets)
	return cp
}

// Len returns the number of brackets.
func (ix *Index) Len() int { return len(ix.brackets) }

// Lookup prices weightKg over distanceKm.
//
// Bracket selection: weight and distance envelope both match; else weight
// alone; else the lightest class. Row selection: the row containing the
// distance, else the row reaching farthest.
func (ix *Index) Lookup(weightKg, distanceKm float64) Match {
	b, ok := ix.bracketFor(weightKg, distanceKm)
	if !ok {
		return Match{}
	}
	row, ok := rowFor(b.Rows, distanceKm)
	if !ok {
		return Match{VehicleType: b.VehicleType, LengthFt: b.LengthFt, MaxCapacityKg: b.Weight.Max}
	}
	return Match{
		Price:         row.Price,
		VehicleType:   b.VehicleType,
		LengthFt:      b.LengthFt,
		MaxCapacityKg: b.Weight.Max,
	}
}

func (ix *Index) bracketFor(weightKg, distanceKm float64) (VehicleBracket, bool) {
	if len(ix.brackets) == 0 {
		return VehicleBracket{}, false
	}
	for _, b := range ix.brackets {
		if b.Weight.Contains(weightKg) && b.Distance.Contains(distanceKm) {
			return b, true
		}
	}
	for _, b := range ix.brackets {
		if b.Weight.Contains(weightKg) {
			return b, true
		}
	}
	lightest := ix.brackets[0]
	for _, b := range ix.brackets[1:] {
		if b.Weight.Min < lightest.Weight.Min {
			lightest = b
		}
	}
	return lightest, true
}

func rowFor(rows []PricingRow, distanceKm float64) (PricingRow, bool) {
	if len(rows) == 0 {
		return PricingRow{}, false
	}
	for _, r := range rows {
		if r.Distance.Contains(distanceKm) {
			return r, true
		}
	}
	// clamp to farthest
	far := rows[0]
	for _, r := range rows[1:] {
		if r.Distance.Max > far.Distance.Max {
			far = r
		}
	}
	return far, true
}

// ErrInvalidBracket is wrapped by Validate for malformed table entries.
var ErrInvalidBracket = errors.New("invalid bracket")

// Validate checks that every bracket has rows and well-formed ranges.
func (ix *Index) Validate() error {
	for i, b := range ix.brackets {
		if b.VehicleType == "" {
			return fmt.Errorf("%w: #%d has no vehicle type", ErrInvalidBracket, i)
		}
		if b.Weight.Min > b.Weight.Max || b.Distance.Min > b.Distance.Max {
			return fmt.Errorf("%w: #%d (%s) has inverted range", ErrInvalidBracket, i, b.VehicleType)
		}
		if len(b.Rows) == 0 {
			return fmt.Errorf("%w: #%d (%s) has no pricing rows", ErrInvalidBracket, i, b.VehicleType)
		}
		for j, r := range b.Rows {
			if r.Distance.Min > r.Distance.Max || r.Price <= 0 {
				return fmt.Errorf("%w: #%d (%s) row %d", ErrInvalidBracket, i, b.VehicleType, j)
			}
		}
	}
	return nil
}
