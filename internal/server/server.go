package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"freightquote/internal/cache"
	"freightquote/internal/compare"
	"freightquote/internal/domain"
	"freightquote/internal/freight"
	"freightquote/internal/rate"
)

const maxBodyBytes = 1 << 20

type Server struct {
	svc   *compare.Service
	index *rate.Index
}

// New builds the HTTP handler. A nil service runs offline with the built-in
// rate table and no vendors; a nil index uses the default table.
func New(svc *compare.Service, index *rate.Index) http.Handler {
	if svc == nil {
		svc = compare.NewService(compare.Deps{})
	}
	if index == nil {
		index = rate.DefaultIndex()
	}
	s := &Server{svc: svc, index: index}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(gzipMiddleware)
	r.Get("/healthz", s.handleHealth)
	r.Get("/rates", s.handleGetRates)
	r.Post("/compare", s.handleCompare)
	r.Get("/compare/last", s.handleLastCompare)
	r.Get("/compare/{key}", s.handleGetCompare)
	r.Get("/form", s.handleGetForm)
	r.Put("/form", s.handlePutForm)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Rates
type RateResponse struct {
	WeightKg      float64             `json:"weightKg"`
	DistanceKm    float64             `json:"distanceKm"`
	Price         float64             `json:"price"`
	VehicleType   string              `json:"vehicleType"`
	LengthFt      float64             `json:"vehicleLengthFt"`
	MaxCapacityKg float64             `json:"maxCapacityKg"`
	Legs          []domain.VehicleLeg `json:"legs,omitempty"`
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := parseFloat(q.Get("weight_kg"))
	if err != nil || weight < 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "weight_kg must be a non-negative number")
		return
	}
	distanceKm, err := parseFloat(q.Get("distance_km"))
	if err != nil || distanceKm < 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "distance_km must be a non-negative number")
		return
	}

	m := s.index.Lookup(min(weight, freight.MaxVehicleCapacityKg), distanceKm)
	res := RateResponse{
		WeightKg:      weight,
		DistanceKm:    distanceKm,
		Price:         freight.LocalTotal(s.index, weight, distanceKm),
		VehicleType:   m.VehicleType,
		LengthFt:      m.LengthFt,
		MaxCapacityKg: m.MaxCapacityKg,
	}
	if weight > freight.MaxVehicleCapacityKg && res.Price > 0 {
		res.Legs = freight.SplitLegs(s.index, weight, distanceKm, res.Price)
	}
	writeJSON(w, http.StatusOK, res)
}

// Compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compare.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := s.svc.Compare(r.Context(), req)
	switch {
	case errors.Is(err, compare.ErrEmptyShipment), errors.Is(err, compare.ErrInvalidShipment):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case err != nil:
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "could not compare quotes")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLastCompare(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.svc.Last(r.Context())
	if !ok {
		writeErrorJSON(w, http.StatusNotFound, "not_found", "no recent comparison")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCompare(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "key required")
		return
	}
	if !strings.HasPrefix(key, cache.ComparePrefix) {
		key = cache.ComparePrefix + key
	}
	resp, ok := s.svc.Lookup(r.Context(), key)
	if !ok {
		writeErrorJSON(w, http.StatusNotFound, "not_found", "comparison expired or unknown")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Form snapshot
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.svc.Form(r.Context())
	if !ok {
		snap = cache.FormSnapshot{}
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutForm(w http.ResponseWriter, r *http.Request) {
	var patch cache.FormSnapshot
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	merged, err := s.svc.SaveForm(r.Context(), patch)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "could not save form")
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
