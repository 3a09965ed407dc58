// Package freight resolves chargeable weight and splits oversized loads
// across vehicles.
package freight

import (
	"math"

	"freightquote/internal/domain"
)

// DefaultVolumetricDivisor converts cm³ to volumetric kg.
const DefaultVolumetricDivisor = 5000.0

// VolumetricWeight returns the dimension-derived weight of a shipment.
// A non-positive divisor falls back to DefaultVolumetricDivisor.
func VolumetricWeight(s domain.Shipment, divisor float64) float64 {
	if divisor <= 0 {
		divisor = DefaultVolumetricDivisor
	}
	return s.VolumeCm3() / divisor
}

// ResolveWeight picks the greater of actual and volumetric weight.
func ResolveWeight(actualKg, volumetricKg float64) domain.WeightBreakdown {
	return domain.WeightBreakdown{
		ActualWeightKg:     actualKg,
		VolumetricWeightKg: volumetricKg,
		ChargeableWeightKg: math.Max(actualKg, volumetricKg),
	}
}

// ShipmentWeight resolves the chargeable weight of a shipment.
func ShipmentWeight(s domain.Shipment, divisor float64) domain.WeightBreakdown {
	return ResolveWeight(s.ActualWeightKg(), VolumetricWeight(s, divisor))
}

// TransitDays estimates door-to-door days for a road move covering
// kmPerDay per driving day, plus one day for pickup and handover.
func TransitDays(distanceKm, kmPerDay float64) int {
	if kmPerDay <= 0 || distanceKm <= 0 {
		return 1
	}
	return int(math.Ceil(distanceKm/kmPerDay)) + 1
}
