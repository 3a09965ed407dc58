package domain

import "math"

// BoxSpec describes a group of identical boxes.
type BoxSpec struct {
	Count    int     `json:"count"`
	LengthCm float64 `json:"lengthCm"`
	WidthCm  float64 `json:"widthCm"`
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
}

// Shipment is an ordered list of box groups. Box order is significant.
type Shipment struct {
	Boxes []BoxSpec `json:"boxes"`
}

// ActualWeightKg sums count*weight over all box groups.
func (s Shipment) ActualWeightKg() float64 {
	var total float64
	for _, b := range s.Boxes {
		total += float64(b.Count) * b.WeightKg
	}
	return total
}

// VolumeCm3 sums count*L*W*H over all box groups.
func (s Shipment) VolumeCm3() float64 {
	var total float64
	for _, b := range s.Boxes {
		total += float64(b.Count) * b.LengthCm * b.WidthCm * b.HeightCm
	}
	return total
}

// WeightBreakdown holds the weights used for pricing.
// ChargeableWeightKg is always max(ActualWeightKg, VolumetricWeightKg).
type WeightBreakdown struct {
	ActualWeightKg     float64 `json:"actualWeightKg"`
	VolumetricWeightKg float64 `json:"volumetricWeightKg"`
	ChargeableWeightKg float64 `json:"chargeableWeightKg"`
}

// VehicleInfo identifies the vehicle class assigned to a load.
type VehicleInfo struct {
	Type     string  `json:"type"`
	LengthFt float64 `json:"lengthFt"`
}

// VehicleLeg is one vehicle's share of an oversized shipment.
type VehicleLeg struct {
	Sequence         int     `json:"sequenceNumber"`
	VehicleType      string  `json:"vehicleType"`
	VehicleLengthFt  float64 `json:"vehicleLengthFt"`
	MaxCapacityKg    float64 `json:"maxCapacityKg"`
	CarryingWeightKg float64 `json:"carryingWeightKg"`
	PriceUnits       float64 `json:"priceUnits"`
}

// RoundTo10 rounds to the nearest 10 currency units.
func RoundTo10(v float64) float64 {
	return math.Round(v/10) * 10
}
