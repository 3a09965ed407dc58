package freight

import (
	"math"

	"freightquote/internal/domain"
	"freightquote/internal/rate"
)

// MaxVehicleCapacityKg is the most a single vehicle carries.
const MaxVehicleCapacityKg = 18000.0

// LegCount returns how many vehicles a load needs.
func LegCount(chargeableKg float64) int {
	if chargeableKg <= MaxVehicleCapacityKg {
		return 1
	}
	return int(math.Ceil(chargeableKg / MaxVehicleCapacityKg))
}

// SplitLegs assigns vehicles to a load and divides totalPrice between them.
//
// Full legs carry MaxVehicleCapacityKg and are priced proportionally; the
// last leg takes the remaining weight and whatever price is left, so the
// leg prices always sum to totalPrice.
func SplitLegs(ix *rate.Index, chargeableKg, distanceKm, totalPrice float64) []domain.VehicleLeg {
	n := LegCount(chargeableKg)
	if n == 1 {
		m := ix.Lookup(chargeableKg, distanceKm)
		return []domain.VehicleLeg{{
			Sequence:         1,
			VehicleType:      m.VehicleType,
			VehicleLengthFt:  m.LengthFt,
			MaxCapacityKg:    m.MaxCapacityKg,
			CarryingWeightKg: chargeableKg,
			PriceUnits:       totalPrice,
		}}
	}

	legs := make([]domain.VehicleLeg, 0, n)
	full := ix.Lookup(MaxVehicleCapacityKg, distanceKm)
	perLeg := math.Round(totalPrice * (MaxVehicleCapacityKg / chargeableKg))
	var carried, priced float64
	for i := 1; i < n; i++ {
		legs = append(legs, domain.VehicleLeg{
			Sequence:         i,
			VehicleType:      full.VehicleType,
			VehicleLengthFt:  full.LengthFt,
			MaxCapacityKg:    MaxVehicleCapacityKg,
			CarryingWeightKg: MaxVehicleCapacityKg,
			PriceUnits:       perLeg,
		})
		carried += MaxVehicleCapacityKg
		priced += perLeg
	}

	remainder := chargeableKg - carried
	last := ix.Lookup(remainder, distanceKm)
	legs = append(legs, domain.VehicleLeg{
		Sequence:         n,
		VehicleType:      last.VehicleType,
		VehicleLengthFt:  last.LengthFt,
		MaxCapacityKg:    last.MaxCapacityKg,
		CarryingWeightKg: remainder,
		PriceUnits:       totalPrice - priced,
	})
	return legs
}

// LocalTotal prices a load from the bracket table alone. Oversized loads
// are priced as the sum of their legs' bracket prices.
func LocalTotal(ix *rate.Index, chargeableKg, distanceKm float64) float64 {
	n := LegCount(chargeableKg)
	if n == 1 {
		return ix.Lookup(chargeableKg, distanceKm).Price
	}
	full := ix.Lookup(MaxVehicleCapacityKg, distanceKm).Price
	remainder := chargeableKg - float64(n-1)*MaxVehicleCapacityKg
	return float64(n-1)*full + ix.Lookup(remainder, distanceKm).Price
}
