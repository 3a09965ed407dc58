// Package quote merges vendor and synthetic quotes into one ranked list.
package quote

import (
	"sort"

	"github.com/google/uuid"

	"freightquote/internal/domain"
	"freightquote/internal/pricing"
)

// SortBy selects the ranking order.
type SortBy string

const (
	SortByPrice  SortBy = "price"
	SortByTime   SortBy = "time"
	SortByRating SortBy = "rating"
)

// ParseSortBy maps user input to a SortBy, defaulting to price.
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortByTime, SortByRating:
		return SortBy(s)
	default:
		return SortByPrice
	}
}

// Options are the caller's filters and ranking choice. Zero thresholds are
// disabled.
type Options struct {
	MaxPrice  float64 `json:"maxPrice,omitempty"`
	MaxDays   int     `json:"maxDays,omitempty"`
	MinRating float64 `json:"minRating,omitempty"`
	SortBy    SortBy  `json:"sortBy,omitempty"`
}

// Input is everything aggregation needs for one request.
type Input struct {
	Contracted []domain.Quote
	OpenMarket []domain.Quote
	Baselines  pricing.Baselines
	// BaselineFailed means pricing produced nothing usable and a
	// placeholder quote must stand in.
	BaselineFailed bool
	DistanceKm     float64
	OriginPin      string
	Options        Options
}

// Result is the aggregated, filtered and ranked output.
type Result struct {
	Visible     []domain.Quote `json:"visible"`
	Hidden      []domain.Quote `json:"hidden"`
	Ranked      []domain.Quote `json:"ranked"`
	BestValueID string         `json:"bestValueId,omitempty"`
	FastestID   string         `json:"fastestId,omitempty"`
}

// Aggregator applies overlays then merges, filters and ranks.
type Aggregator struct {
	overlays []Overlay
}

// NewAggregator returns an Aggregator running the given overlays in order.
func NewAggregator(overlays ...Overlay) *Aggregator {
	return &Aggregator{overlays: overlays}
}

// Aggregate runs the full pipeline. Input slices are never mutated.
func (a *Aggregator) Aggregate(in Input) Result {
	pool := &Pool{Exempt: make(map[string]bool)}
	for _, q := range in.Contracted {
		pool.Quotes = append(pool.Quotes, tag(q, true, domain.SourceContracted))
	}
	for _, q := range in.OpenMarket {
		pool.Quotes = append(pool.Quotes, tag(q, false, domain.SourceOpenMarket))
	}
	for _, o := range a.overlays {
		o.Apply(pool)
	}

	merged := pool.Quotes
	if g := in.Baselines.Generic; g != nil {
		merged = append(merged, tag(*g, false, domain.SourceBaseline))
	}
	if c := in.Baselines.Carrier; c != nil && Serviceable(in.OriginPin) {
		merged = append(merged, tag(*c, false, domain.SourceBaseline))
	}
	if in.BaselineFailed {
		merged = append(merged, tag(pricing.Placeholder(in.DistanceKm), false, domain.SourcePlaceholder))
	}

	var res Result
	res.BestValueID = cheapest(merged)
	visible, hidden := partition(merged)
	res.FastestID = fastest(visible)

	visible = filterVisible(visible, in.Options)
	hidden = filterHidden(hidden, in.Options)

	sortBy := ParseSortBy(string(in.Options.SortBy))
	res.Visible = Rank(visible, sortBy)
	res.Hidden = Rank(hidden, sortBy)
	res.Ranked = Merge(visible, hidden, sortBy)
	return res
}

// Aggregate runs the default overlays for premiumCompany.
func Aggregate(in Input, premiumCompany string) Result {
	return NewAggregator(DefaultOverlays(premiumCompany)...).Aggregate(in)
}

func tag(q domain.Quote, tiedUp bool, source domain.QuoteSource) domain.Quote {
	c := q.Clone()
	c.IsTiedUp = tiedUp
	if c.Source == "" || source == domain.SourceContracted || source == domain.SourceOpenMarket {
		c.Source = source
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

func partition(quotes []domain.Quote) (visible, hidden []domain.Quote) {
	for _, q := range quotes {
		if q.IsHidden {
			hidden = append(hidden, q)
		} else {
			visible = append(visible, q)
		}
	}
	return visible, hidden
}

func filterVisible(quotes []domain.Quote, o Options) []domain.Quote {
	out := make([]domain.Quote, 0, len(quotes))
	for _, q := range quotes {
		if o.MaxPrice > 0 && q.Total > o.MaxPrice {
			continue
		}
		if o.MaxDays > 0 && q.EstimatedDays > o.MaxDays {
			continue
		}
		if o.MinRating > 0 && q.Rating < o.MinRating {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Hidden quotes do not show time or rating, so only price applies.
func filterHidden(quotes []domain.Quote, o Options) []domain.Quote {
	out := make([]domain.Quote, 0, len(quotes))
	for _, q := range quotes {
		if o.MaxPrice > 0 && q.Total > o.MaxPrice {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Merge ranks visible and hidden quotes as one list.
func Merge(visible, hidden []domain.Quote, by SortBy) []domain.Quote {
	all := make([]domain.Quote, 0, len(visible)+len(hidden))
	all = append(all, visible...)
	return Rank(append(all, hidden...), by)
}

// Rank returns a stably sorted copy of quotes.
func Rank(quotes []domain.Quote, by SortBy) []domain.Quote {
	out := append([]domain.Quote(nil), quotes...)
	switch by {
	case SortByTime:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].IsHidden != out[j].IsHidden {
				return !out[i].IsHidden
			}
			if out[i].IsHidden {
				return false
			}
			return out[i].EstimatedDays < out[j].EstimatedDays
		})
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool {
			return shownRating(out[i]) > shownRating(out[j])
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Total < out[j].Total
		})
	}
	return out
}

func shownRating(q domain.Quote) float64 {
	if q.IsHidden {
		return 0
	}
	return q.Rating
}

func cheapest(quotes []domain.Quote) string {
	best := -1
	for i, q := range quotes {
		if q.Total <= 0 {
			continue
		}
		if best < 0 || q.Total < quotes[best].Total {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return quotes[best].ID
}

// fastest ignores quotes with unknown transit time.
func fastest(visible []domain.Quote) string {
	best := -1
	for i, q := range visible {
		if q.EstimatedDays <= 0 {
			continue
		}
		if best < 0 || q.EstimatedDays < visible[best].EstimatedDays {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return visible[best].ID
}
