package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freightquote/internal/domain"
)

func TestNormalize_FlatPayload(t *testing.T) {
	body := []byte(`{
		"price": 163500,
		"weightBreakdown": {"actualWeightKg": 25000, "volumetricWeightKg": 12000, "chargeableWeightKg": 25000},
		"vehicleInfo": {"type": "Container 32 ft MXL", "lengthFt": 32},
		"legs": [
			{"sequenceNumber": 1, "vehicleType": "Container 32 ft MXL", "carryingWeightKg": 18000, "priceUnits": 117720},
			{"sequenceNumber": 2, "vehicleType": "Eicher 19 ft", "carryingWeightKg": 7000, "priceUnits": 45780}
		]
	}`)
	r, err := (&DefaultNormalizer{}).Normalize(body)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if r.Price != 163500 {
		t.Fatalf("unexpected price: %v", r.Price)
	}
	if r.Weight == nil || r.Weight.ChargeableWeightKg != 25000 {
		t.Fatalf("unexpected weight: %+v", r.Weight)
	}
	if r.Vehicle == nil || r.Vehicle.LengthFt != 32 {
		t.Fatalf("unexpected vehicle: %+v", r.Vehicle)
	}
	if len(r.Legs) != 2 || r.Legs[1].PriceUnits != 45780 || r.Legs[1].Sequence != 2 {
		t.Fatalf("unexpected legs: %+v", r.Legs)
	}
}

func TestNormalize_NestedAndStringNumbers(t *testing.T) {
	body := []byte(`{"data": {"price": "4300", "vehicleInfo": {"vehicleType": "Tata Ace", "length": "7"}}}`)
	r, err := (&DefaultNormalizer{}).Normalize(body)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if r.Price != 4300 || r.Vehicle == nil || r.Vehicle.Type != "Tata Ace" || r.Vehicle.LengthFt != 7 {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestNormalize_MissingPrice(t *testing.T) {
	_, err := (&DefaultNormalizer{}).Normalize([]byte(`{"status": "ok"}`))
	if !errors.Is(err, ErrMissingPrice) {
		t.Fatalf("expected ErrMissingPrice, got %v", err)
	}
}

func TestClient_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/price" {
			http.NotFound(w, r)
			return
		}
		var req priceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ChargeableWeightKg != 900 || req.DistanceKm != 100 || len(req.Boxes) != 1 {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 4321}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	r, err := c.Quote(context.Background(), Request{
		Weight:     domain.WeightBreakdown{ActualWeightKg: 900, ChargeableWeightKg: 900},
		DistanceKm: 100,
		Shipment:   domain.Shipment{Boxes: []domain.BoxSpec{{Count: 1, WeightKg: 900}}},
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if r.Price != 4321 {
		t.Fatalf("unexpected price: %v", r.Price)
	}
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, time.Second).Quote(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestClient_TimeoutFallsThroughChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	chain := NewChain(NewClient(srv.URL, 50*time.Millisecond), nil, "", nil)
	start := time.Now()
	res := chain.Price(context.Background(), Request{Weight: domain.WeightBreakdown{ChargeableWeightKg: 900}, DistanceKm: 100})
	if time.Since(start) > time.Second {
		t.Fatalf("remote call was not bounded by its timeout")
	}
	if res.Tier != TierLocal || res.Economy != 4300 {
		t.Fatalf("expected local fallback, got %+v", res)
	}
}
