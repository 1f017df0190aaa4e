// Package allocation splits a scalar medal total into non-negative integer
// gold/silver/bronze counts that sum exactly to the rounded total.
package allocation

import (
	"math"

	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
)

// Ratios are the gold/silver/bronze shares. They need not be normalized.
type Ratios struct {
	Gold   float64
	Silver float64
	Bronze float64
}

// Thirds is the fallback split for entities without history.
func Thirds() Ratios { return Ratios{Gold: 1, Silver: 1, Bronze: 1} }

// Historical derives ratios from an entity's summed medals. ok is false
// when there is no history to derive them from.
func Historical(sum model.Medals) (Ratios, bool) {
	if sum.Total() <= 0 {
		return Thirds(), false
	}
	return Ratios{Gold: float64(sum.Gold), Silver: float64(sum.Silver), Bronze: float64(sum.Bronze)}, true
}

// tier lists are keyed by identity.Key of the canonical label.
var (
	dominantTier = map[string]struct{}{ //nolint:gochecknoglobals // static table
		identity.Key("United States"): {},
		identity.Key("China"):         {},
		identity.Key("Germany"):       {},
	}
	strongTier = map[string]struct{}{ //nolint:gochecknoglobals // static table
		identity.Key("France"):        {},
		identity.Key("Great Britain"): {},
		identity.Key("Japan"):         {},
	}
)

// TierRatios is the fixed split used by the model path when an entity has
// no history: dominant nations skew towards gold.
func TierRatios(country string) Ratios {
	k := identity.Key(country)
	if _, ok := dominantTier[k]; ok {
		return Ratios{Gold: 0.5, Silver: 0.3, Bronze: 0.2}
	}
	if _, ok := strongTier[k]; ok {
		return Ratios{Gold: 0.4, Silver: 0.35, Bronze: 0.25}
	}
	return Ratios{Gold: 0.4, Silver: 0.3, Bronze: 0.3}
}

// normalized returns shares summing to 1. Non-finite or negative entries
// count as zero; a non-positive sum falls back to thirds.
func (r Ratios) normalized() Ratios {
	clean := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return 0
		}
		return x
	}
	g, s, b := clean(r.Gold), clean(r.Silver), clean(r.Bronze)
	sum := g + s + b
	if sum <= 0 {
		return Ratios{Gold: 1.0 / 3, Silver: 1.0 / 3, Bronze: 1.0 / 3}
	}
	return Ratios{Gold: g / sum, Silver: s / sum, Bronze: b / sum}
}

// RoundTotal rounds half away from zero and floors at zero. Non-finite
// totals round to zero.
func RoundTotal(total float64) int {
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 0
	}
	return int(math.Round(total))
}

// Allocate splits total by ratios. Each share is rounded independently and
// bronze absorbs the residual, so Gold+Silver+Bronze == RoundTotal(total)
// always holds. No count goes below zero; a shortfall that bronze cannot
// absorb is taken from the largest remaining category.
func Allocate(total float64, ratios Ratios) model.Medals {
	target := RoundTotal(total)
	if target == 0 {
		return model.Medals{}
	}
	r := ratios.normalized()
	t := float64(target)

	out := model.Medals{
		Gold:   int(math.Round(t * r.Gold)),
		Silver: int(math.Round(t * r.Silver)),
		Bronze: int(math.Round(t * r.Bronze)),
	}
	out.Bronze += target - out.Total()
	return settle(out)
}

// RoundEach rounds per-medal estimates that are already split (as produced
// by smoothing) independently. The total is the sum of the rounded parts.
func RoundEach(gold, silver, bronze float64) model.Medals {
	return model.Medals{Gold: RoundTotal(gold), Silver: RoundTotal(silver), Bronze: RoundTotal(bronze)}
}

// settle moves any negative count to zero, taking the deficit from the
// largest remaining category until the sum is restored.
func settle(m model.Medals) model.Medals {
	counts := [3]*int{&m.Gold, &m.Silver, &m.Bronze}
	deficit := 0
	for _, c := range counts {
		if *c < 0 {
			deficit += -*c
			*c = 0
		}
	}
	for deficit > 0 {
		largest := counts[0]
		for _, c := range counts[1:] {
			if *c > *largest {
				largest = c
			}
		}
		if *largest == 0 {
			break
		}
		*largest--
		deficit--
	}
	return m
}
