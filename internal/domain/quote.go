package domain

import "encoding/json"

// QuoteSource records where a quote came from.
type QuoteSource string

const (
	SourceContracted  QuoteSource = "contracted"
	SourceOpenMarket  QuoteSource = "open_market"
	SourceBaseline    QuoteSource = "baseline"
	SourcePlaceholder QuoteSource = "placeholder"
)

// Charges is the optional per-item breakdown of a quote. Zero means not populated.
type Charges struct {
	BaseFreight   float64 `json:"baseFreight,omitempty"`
	FuelSurcharge float64 `json:"fuelSurcharge,omitempty"`
	Handling      float64 `json:"handlingCharges,omitempty"`
	Docket        float64 `json:"docketCharge,omitempty"`
	ODA           float64 `json:"odaCharges,omitempty"`
	Tax           float64 `json:"gst,omitempty"`
}

// Scale multiplies every populated field by factor and applies round.
func (c *Charges) Scale(factor float64, round func(float64) float64) {
	for _, f := range []*float64{&c.BaseFreight, &c.FuelSurcharge, &c.Handling, &c.Docket, &c.ODA, &c.Tax} {
		if *f != 0 {
			*f = round(*f * factor)
		}
	}
}

// Quote is one vendor's offer for a shipment.
type Quote struct {
	ID            string       `json:"id"`
	CompanyName   string       `json:"companyName"`
	Total         float64      `json:"-"`
	EstimatedDays int          `json:"estimatedDays"`
	Rating        float64      `json:"rating"`
	IsTiedUp      bool         `json:"isTiedUp"`
	IsHidden      bool         `json:"isHidden"`
	Source        QuoteSource  `json:"source,omitempty"`
	Vehicle       *VehicleInfo `json:"vehicleInfo,omitempty"`
	Legs          []VehicleLeg `json:"legs,omitempty"`
	Charges       *Charges     `json:"charges,omitempty"`
}

// Clone returns a deep copy so overlays never mutate caller data.
func (q Quote) Clone() Quote {
	c := q
	if q.Vehicle != nil {
		v := *q.Vehicle
		c.Vehicle = &v
	}
	if q.Legs != nil {
		c.Legs = append([]VehicleLeg(nil), q.Legs...)
	}
	if q.Charges != nil {
		ch := *q.Charges
		c.Charges = &ch
	}
	return c
}

type quoteAlias Quote

type quoteWire struct {
	quoteAlias
	Total        *float64 `json:"total"`
	Price        *float64 `json:"price"`
	TotalCharges *float64 `json:"totalCharges"`
	TotalPrice   *float64 `json:"totalPrice"`
}

// MarshalJSON writes Total under all four legacy price names.
func (q Quote) MarshalJSON() ([]byte, error) {
	t := q.Total
	return json.Marshal(quoteWire{
		quoteAlias:   quoteAlias(q),
		Total:        &t,
		Price:        &t,
		TotalCharges: &t,
		TotalPrice:   &t,
	})
}

// UnmarshalJSON reads the first populated price name into Total.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var w quoteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Quote(w.quoteAlias)
	for _, p := range []*float64{w.Total, w.Price, w.TotalCharges, w.TotalPrice} {
		if p != nil {
			q.Total = *p
			break
		}
	}
	return nil
}
