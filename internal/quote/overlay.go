package quote

import (
	"strings"

	"github.com/google/uuid"

	"freightquote/internal/domain"
)

// MarkupFactor is applied to tied-up quotes other than the premium survivor.
const MarkupFactor = 5.0

// Pool is the working state the overlays operate on.
type Pool struct {
	Quotes []domain.Quote
	// Exempt holds quote IDs that later overlays must leave untouched.
	Exempt map[string]bool
}

// Overlay is a pricing policy step applied to the tagged pool before
// baselines join it.
type Overlay interface {
	Name() string
	Apply(p *Pool)
}

// DefaultOverlays returns the production policy: the premium company keeps
// only its cheapest quote, then every other tied-up quote is marked up.
func DefaultOverlays(premiumCompany string) []Overlay {
	return []Overlay{
		SingleSurvivor{Company: premiumCompany},
		Markup{Factor: MarkupFactor},
	}
}

// SingleSurvivor drops all but the cheapest quote from one company and
// re-tags the survivor as tied-up.
type SingleSurvivor struct {
	Company string
}

func (SingleSurvivor) Name() string { return "single_survivor" }

func (s SingleSurvivor) Apply(p *Pool) {
	if s.Company == "" {
		return
	}
	best := -1
	for i, q := range p.Quotes {
		if !s.matches(q) {
			continue
		}
		if best < 0 || q.Total < p.Quotes[best].Total {
			best = i
		}
	}
	if best < 0 {
		return
	}
	survivor := p.Quotes[best]
	survivor.IsTiedUp = true
	survivor.Source = domain.SourceContracted

	out := p.Quotes[:0:0]
	clash := false
	for i, q := range p.Quotes {
		switch {
		case i == best:
			out = append(out, survivor)
		case s.matches(q):
		default:
			clash = clash || q.ID == survivor.ID
			out = append(out, q)
		}
	}
	// The exemption is keyed by ID, so the survivor's must be unique.
	if clash {
		for i := range out {
			if out[i].ID == survivor.ID && s.matches(out[i]) {
				out[i].ID = uuid.NewString()
				survivor.ID = out[i].ID
				break
			}
		}
	}
	p.Quotes = out
	if p.Exempt == nil {
		p.Exempt = make(map[string]bool)
	}
	p.Exempt[survivor.ID] = true
}

func (s SingleSurvivor) matches(q domain.Quote) bool {
	return strings.EqualFold(strings.TrimSpace(q.CompanyName), strings.TrimSpace(s.Company))
}

// Markup multiplies the total and populated charges of tied-up quotes.
type Markup struct {
	Factor float64
}

func (Markup) Name() string { return "markup" }

func (m Markup) Apply(p *Pool) {
	for i := range p.Quotes {
		q := &p.Quotes[i]
		if !q.IsTiedUp || p.Exempt[q.ID] {
			continue
		}
		q.Total = domain.RoundTo10(q.Total * m.Factor)
		if q.Charges != nil {
			q.Charges.Scale(m.Factor, domain.RoundTo10)
		}
	}
}
