package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"freightquote/internal/domain"
)

// ErrMissingPrice is returned when a payload has no usable price.
var ErrMissingPrice = errors.New("missing price")

// Normalizer maps a pricing service payload onto Remote.
type Normalizer interface {
	Normalize(body []byte) (Remote, error)
}

// DefaultNormalizer extracts common fields from differently shaped payloads.
type DefaultNormalizer struct{}

func (n *DefaultNormalizer) Normalize(body []byte) (Remote, error) {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return Remote{}, err
	}

	price, ok := getFloat(payload, []string{"price", "total", "totalPrice", "data.price", "data.total", "result.price"})
	if !ok || price <= 0 {
		return Remote{}, ErrMissingPrice
	}
	out := Remote{Price: price}

	if wm := getMap(payload, []string{"weightBreakdown", "weight", "data.weightBreakdown"}); wm != nil {
		actual, _ := getFloat(wm, []string{"actualWeightKg", "actualWeight", "actual"})
		vol, _ := getFloat(wm, []string{"volumetricWeightKg", "volumetricWeight", "volumetric"})
		charge, ok := getFloat(wm, []string{"chargeableWeightKg", "chargeableWeight", "chargeable"})
		if !ok {
			charge = max(actual, vol)
		}
		if charge > 0 {
			out.Weight = &domain.WeightBreakdown{
				ActualWeightKg:     actual,
				VolumetricWeightKg: vol,
				ChargeableWeightKg: charge,
			}
		}
	}

	if vm := getMap(payload, []string{"vehicleInfo", "vehicle", "data.vehicleInfo"}); vm != nil {
		vt := getString(vm, []string{"type", "vehicleType", "name"})
		if vt != "" {
			length, _ := getFloat(vm, []string{"lengthFt", "length", "vehicleLengthFt"})
			out.Vehicle = &domain.VehicleInfo{Type: vt, LengthFt: length}
		}
	}

	if raw := getAny(payload, []string{"legs", "vehicles", "data.legs"}); raw != nil {
		if items, ok := raw.([]any); ok {
			for i, it := range items {
				m, ok := it.(map[string]any)
				if !ok {
					continue
				}
				seq, ok := getFloat(m, []string{"sequenceNumber", "sequence", "seq"})
				if !ok {
					seq = float64(i + 1)
				}
				length, _ := getFloat(m, []string{"vehicleLengthFt", "lengthFt"})
				capKg, _ := getFloat(m, []string{"maxCapacityKg", "capacityKg"})
				carry, _ := getFloat(m, []string{"carryingWeightKg", "weightKg"})
				lp, _ := getFloat(m, []string{"priceUnits", "price"})
				out.Legs = append(out.Legs, domain.VehicleLeg{
					Sequence:         int(seq),
					VehicleType:      getString(m, []string{"vehicleType", "type"}),
					VehicleLengthFt:  length,
					MaxCapacityKg:    capKg,
					CarryingWeightKg: carry,
					PriceUnits:       lp,
				})
			}
		}
	}
	return out, nil
}

// getString returns the first non-empty string from the candidate keys.
func getString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// getFloat returns the first numeric value from the candidate keys.
func getFloat(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		if f, ok := toFloat(getPath(m, k)); ok {
			return f, true
		}
	}
	return 0, false
}

func getMap(m map[string]any, keys []string) map[string]any {
	for _, k := range keys {
		if mm, ok := getPath(m, k).(map[string]any); ok {
			return mm
		}
	}
	return nil
}

// getAny returns the first non-nil value from the candidate keys.
func getAny(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			return v
		}
	}
	return nil
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
	parts := strings.Split(path, ".")
	var cur any = m
	for _, p := range parts {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := mm[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err == nil {
			return f, true
		}
		return 0, false
	case string:
		f, err := json.Number(strings.TrimSpace(t)).Float64()
		if err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
