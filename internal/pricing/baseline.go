package pricing

import (
	"math"

	"github.com/google/uuid"

	"freightquote/internal/domain"
	"freightquote/internal/freight"
)

// MinServiceableWeightKg is the lightest load the synthetic baselines cover.
const MinServiceableWeightKg = 500.0

// Names of the synthetic quotes.
const (
	GenericBaselineName = "FTL Road Freight"
	CarrierBaselineName = "Swift Roadways Express"
	PlaceholderName     = "Road Freight (indicative)"
)

const (
	economyKmPerDay   = 350.0
	expeditedKmPerDay = 550.0
)

// Baselines holds the always-on synthetic quotes for one request.
type Baselines struct {
	Generic *domain.Quote
	Carrier *domain.Quote
}

// Quotes lists the populated baselines, generic first.
func (b Baselines) Quotes() []domain.Quote {
	var out []domain.Quote
	if b.Generic != nil {
		out = append(out, *b.Generic)
	}
	if b.Carrier != nil {
		out = append(out, *b.Carrier)
	}
	return out
}

// BuildBaselines turns a chain result into synthetic quotes. Loads under
// MinServiceableWeightKg get none.
func BuildBaselines(res Result, distanceKm float64) Baselines {
	if !res.OK() || res.Weight.ChargeableWeightKg < MinServiceableWeightKg {
		return Baselines{}
	}
	vehicle := res.Vehicle
	generic := domain.Quote{
		ID:            uuid.NewString(),
		CompanyName:   GenericBaselineName,
		Total:         res.Economy,
		EstimatedDays: freight.TransitDays(distanceKm, economyKmPerDay),
		Rating:        4.0,
		Source:        domain.SourceBaseline,
		Vehicle:       &vehicle,
		Legs:          scaleLegs(res.Legs, res.Economy),
	}
	carrierVehicle := res.Vehicle
	carrier := domain.Quote{
		ID:            uuid.NewString(),
		CompanyName:   CarrierBaselineName,
		Total:         res.Expedited,
		EstimatedDays: freight.TransitDays(distanceKm, expeditedKmPerDay),
		Rating:        4.3,
		Source:        domain.SourceBaseline,
		Vehicle:       &carrierVehicle,
		Legs:          scaleLegs(res.Legs, res.Expedited),
	}
	return Baselines{Generic: &generic, Carrier: &carrier}
}

// Placeholder is the fixed quote shown when pricing produced nothing.
func Placeholder(distanceKm float64) domain.Quote {
	return domain.Quote{
		ID:            uuid.NewString(),
		CompanyName:   PlaceholderName,
		Total:         DefaultEconomyPrice,
		EstimatedDays: freight.TransitDays(distanceKm, economyKmPerDay),
		Source:        domain.SourcePlaceholder,
	}
}

// scaleLegs re-prices legs to a new total, keeping the last leg as the
// rounding sink.
func scaleLegs(legs []domain.VehicleLeg, total float64) []domain.VehicleLeg {
	if len(legs) == 0 {
		return nil
	}
	var base float64
	for _, l := range legs {
		base += l.PriceUnits
	}
	out := append([]domain.VehicleLeg(nil), legs...)
	if base == total || base <= 0 {
		return out
	}
	var priced float64
	for i := range out[:len(out)-1] {
		out[i].PriceUnits = math.Round(out[i].PriceUnits * total / base)
		priced += out[i].PriceUnits
	}
	out[len(out)-1].PriceUnits = total - priced
	return out
}
