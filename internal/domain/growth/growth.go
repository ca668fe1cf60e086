// Package growth estimates historical listener counts and computes
// growth percentages adjusted for platform-wide audience inflation.
//
// True historical data is not available from the public API, so the
// estimator projects today's numbers backward under fixed growth-rate
// assumptions. Callers must treat estimates as approximations, not
// ground truth.
package growth

import (
	"math"
	"time"
)

// PlatformMonthlyRate is the assumed platform-wide audience growth,
// roughly 17% annualized.
const PlatformMonthlyRate = 0.013

const daysPerMonth = 30

// rateBracket selects an assumed monthly growth rate by audience size.
// Smaller artists are assumed to grow faster. Bounds are exclusive:
// the first bracket with listeners < upperBound wins.
type rateBracket struct {
	upperBound int
	rate       float64
}

var artistRates = []rateBracket{
	{10_000, 0.05},
	{100_000, 0.03},
	{1_000_000, 0.02},
}

// tail rate for artists at or above the last bracket bound
const artistRateLarge = 0.01

// ArtistMonthlyRate returns the assumed monthly growth rate for an
// artist with the given current listener count.
func ArtistMonthlyRate(listeners int) float64 {
	for _, b := range artistRates {
		if listeners < b.upperBound {
			return b.rate
		}
	}
	return artistRateLarge
}

// MonthsBetween returns the fractional number of 30-day months between
// added and now. Negative when added is in the future; that is not
// rejected and simply flips the direction of the projection.
func MonthsBetween(added, now time.Time) float64 {
	return now.Sub(added).Hours() / 24 / daysPerMonth
}

// EstimatePastListeners projects current backward to the date the track
// was added, compounding the artist-specific and platform rates.
func EstimatePastListeners(current int, added, now time.Time) int {
	months := MonthsBetween(added, now)
	combined := ArtistMonthlyRate(current) + PlatformMonthlyRate
	return int(math.Floor(float64(current) / math.Pow(1+combined, months)))
}

// AdjustForInflation returns the growth percentage from past to current
// with the assumed platform-wide growth removed, isolating artist-
// specific growth.
//
// When past is 0 the result is non-finite (±Inf or NaN). This is
// deliberately not guarded the way RawGrowthPercent is; callers must
// check the result with math.IsInf/math.IsNaN before using it.
func AdjustForInflation(current, past int, added, now time.Time) float64 {
	months := MonthsBetween(added, now)
	inflation := math.Pow(1+PlatformMonthlyRate, months)
	adjusted := float64(current) / inflation
	return (adjusted - float64(past)) / float64(past) * 100
}

// RawGrowthPercent returns the plain growth percentage from past to
// current, with no inflation adjustment. Returns 0 when past is 0.
// Used for display only, never for scoring.
func RawGrowthPercent(current, past int) float64 {
	if past == 0 {
		return 0
	}
	return float64(current-past) / float64(past) * 100
}
