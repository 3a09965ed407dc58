package rate

import "sync"

// Vehicle class names used by the built-in table.
const (
	TataAce          = "Tata Ace"
	Pickup8Ft        = "Pickup 8 ft"
	Tata407          = "Tata 407"
	Eicher17Ft       = "Eicher 17 ft"
	Eicher19Ft       = "Eicher 19 ft"
	Tata22Ft         = "Tata 22 ft"
	Container32FtSXL = "Container 32 ft SXL"
	Container32FtMXL = "Container 32 ft MXL"
)

func rows(pairs ...float64) []PricingRow {
	out := make([]PricingRow, 0, len(pairs)/3)
	for i := 0; i+2 < len(pairs); i += 3 {
		out = append(out, PricingRow{Distance: Range{Min: pairs[i], Max: pairs[i+1]}, Price: pairs[i+2]})
	}
	return out
}

// defaultBrackets is the historical rate card. Order matters: the two Tata Ace
// entries overlap on weight and are resolved first-match.
var defaultBrackets = []VehicleBracket{
	{
		VehicleType: TataAce, LengthFt: 7,
		Weight: Range{0, 1000}, Distance: Range{0, 300},
		Rows: rows(
			0, 50, 2800,
			50, 100, 4300,
			100, 200, 6900,
			200, 300, 9800,
		),
	},
	{
		VehicleType: TataAce, LengthFt: 7,
		Weight: Range{0, 750}, Distance: Range{0, 600},
		Rows: rows(
			0, 100, 4100,
			100, 300, 8900,
			300, 600, 15500,
		),
	},
	{
		VehicleType: Pickup8Ft, LengthFt: 8,
		Weight: Range{1000, 1500}, Distance: Range{0, 1000},
		Rows: rows(
			0, 100, 5200,
			100, 300, 10500,
			300, 600, 17800,
			600, 1000, 26500,
		),
	},
	{
		VehicleType: Tata407, LengthFt: 14,
		Weight: Range{1500, 4000}, Distance: Range{0, 1500},
		Rows: rows(
			0, 100, 7500,
			100, 300, 14800,
			300, 600, 24500,
			600, 1000, 36000,
			1000, 1500, 49500,
		),
	},
	{
		VehicleType: Eicher17Ft, LengthFt: 17,
		Weight: Range{4000, 5000}, Distance: Range{0, 2000},
		Rows: rows(
			0, 100, 9800,
			100, 300, 18500,
			300, 600, 30500,
			600, 1000, 44800,
			1000, 2000, 72000,
		),
	},
	{
		VehicleType: Eicher19Ft, LengthFt: 19,
		Weight: Range{5000, 9000}, Distance: Range{0, 2500},
		Rows: rows(
			0, 100, 12500,
			100, 300, 23500,
			300, 600, 38000,
			600, 1000, 55500,
			1000, 2500, 98000,
		),
	},
	{
		VehicleType: Tata22Ft, LengthFt: 22,
		Weight: Range{9000, 12000}, Distance: Range{0, 3000},
		Rows: rows(
			0, 100, 15800,
			100, 300, 29500,
			300, 600, 47500,
			600, 1000, 69000,
			1000, 3000, 135000,
		),
	},
	{
		VehicleType: Container32FtSXL, LengthFt: 32,
		Weight: Range{12000, 15000}, Distance: Range{0, 3500},
		Rows: rows(
			0, 100, 21500,
			100, 300, 39000,
			300, 600, 62500,
			600, 1000, 88500,
			1000, 3500, 175000,
		),
	},
	{
		VehicleType: Container32FtMXL, LengthFt: 32,
		Weight: Range{15000, 18000}, Distance: Range{0, 3500},
		Rows: rows(
			0, 100, 26500,
			100, 300, 47500,
			300, 600, 76000,
			600, 1000, 108000,
			1000, 3500, 212000,
		),
	},
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// DefaultIndex returns the built-in table, built once per process.
func DefaultIndex() *Index {
	defaultOnce.Do(func() {
		defaultIndex = NewIndex(defaultBrackets)
	})
	return defaultIndex
}
