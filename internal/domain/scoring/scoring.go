// Package scoring computes the per-track clout score: how much credit a
// curator earns for adding a track before the artist grew popular.
package scoring

import (
	"math"
	"time"

	"github.com/okian/clout/internal/domain/growth"
	"github.com/okian/clout/internal/domain/model"
)

// relevance factor shape constants: a listener count of 10^7 or more
// reaches full relevance 1.0, counts near zero bottom out around 0.3.
const (
	relevanceOffset  = 3
	relevanceDivisor = 10
)

// Score computes the clout breakdown for a single track.
//
// listenersAtAdd is the (estimated) listener count when the track was
// added; currentListeners is the count today. The score combines the
// inflation-adjusted growth percentage, a log-scaled volume weight, the
// discovery-tier multiplier capped by eventual size, and a relevance
// factor that discounts artists who never got big.
//
// The growth percentage is intentionally not floored at zero: a pick
// that declined produces a negative score.
//
// Returns ErrNonFiniteScore when the composite is NaN or ±Inf, which
// happens when listenersAtAdd is 0 (the inflation-adjusted growth
// divides by the past count). Such tracks are unscorable and must be
// skipped or reported by the caller, never coerced to zero.
func Score(listenersAtAdd, currentListeners int, added, now time.Time) (model.ScoreBreakdown, error) {
	adjustedGrowth := growth.AdjustForInflation(currentListeners, listenersAtAdd, added, now)

	absoluteGrowth := currentListeners - listenersAtAdd
	volumeWeight := math.Log10(math.Abs(float64(absoluteGrowth)) + 1)

	band := ClassifyTier(listenersAtAdd)
	capped := capMultiplier(currentListeners, band.Multiplier)

	base := adjustedGrowth * volumeWeight * capped
	relevance := relevanceFactor(currentListeners)
	final := base * relevance

	if math.IsNaN(final) || math.IsInf(final, 0) {
		return model.ScoreBreakdown{}, ErrNonFiniteScore
	}

	return model.ScoreBreakdown{
		Score:                int(math.Round(final)),
		AdjustedGrowthPct:    int(math.Round(adjustedGrowth)),
		RawGrowthPct:         int(math.Round(growth.RawGrowthPercent(currentListeners, listenersAtAdd))),
		AbsoluteGrowth:       absoluteGrowth,
		VolumeWeight:         volumeWeight,
		DiscoveryTier:        band.Name,
		TierColor:            band.Color,
		TierEmoji:            band.Emoji,
		TierMultiplier:       band.Multiplier,
		CappedMultiplier:     capped,
		RelevanceFactor:      relevance,
		ListenersAtDiscovery: listenersAtAdd,
		CurrentListeners:     currentListeners,
	}, nil
}

// relevanceFactor scales scores down for artists who never became
// broadly popular. Capped at 1 above; the lower end is left unclamped
// and bottoms out around 0.3 for non-negative listener counts since
// log10(max(x,1)) >= 0.
func relevanceFactor(currentListeners int) float64 {
	l := math.Log10(math.Max(float64(currentListeners), 1))
	return math.Min((l+relevanceOffset)/relevanceDivisor, 1)
}
