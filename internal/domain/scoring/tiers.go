package scoring

import "github.com/okian/clout/internal/domain/model"

// Discovery tiers, from most obscure to mainstream.
const (
	TierBedroomProducer  model.Tier = "Bedroom Producer"
	TierSoundcloudRapper model.Tier = "Soundcloud Rapper"
	TierUndergroundLgnd  model.Tier = "Underground Legend"
	TierLocalHero        model.Tier = "Local Hero"
	TierEarlyAdopter     model.Tier = "Early Adopter"
	TierTastemaker       model.Tier = "Tastemaker"
	TierAheadOfCurve     model.Tier = "Ahead of Curve"
	TierIndieEnthusiast  model.Tier = "Indie Enthusiast"
	TierRisingStarHunter model.Tier = "Rising Star Hunter"
	TierTrendingFinder   model.Tier = "Trending Finder"
	TierPopularFollower  model.Tier = "Popular Follower"
	TierMainstream       model.Tier = "Mainstream"
)

// Band is one row of the discovery-tier table: artists below UpperBound
// listeners at add time fall into this tier. Color and Emoji are
// cosmetic labels consumed by the presentation layer only.
type Band struct {
	UpperBound int
	Multiplier float64
	Name       model.Tier
	Color      string
	Emoji      string
}

// tierTable is evaluated top to bottom; the first band with
// listeners < UpperBound wins. Together with the mainstream tail it
// partitions [0, inf).
var tierTable = []Band{
	{100, 20, TierBedroomProducer, "#9b59b6", "🎧"},
	{500, 15, TierSoundcloudRapper, "#e67e22", "🎤"},
	{1_000, 12, TierUndergroundLgnd, "#34495e", "🕶️"},
	{5_000, 8, TierLocalHero, "#16a085", "🏠"},
	{10_000, 6, TierEarlyAdopter, "#2980b9", "🚀"},
	{50_000, 4, TierTastemaker, "#27ae60", "👅"},
	{100_000, 3, TierAheadOfCurve, "#f39c12", "📈"},
	{500_000, 2.5, TierIndieEnthusiast, "#d35400", "🎸"},
	{1_000_000, 2, TierRisingStarHunter, "#c0392b", "⭐"},
	{5_000_000, 1.5, TierTrendingFinder, "#8e44ad", "🔥"},
	{10_000_000, 1.2, TierPopularFollower, "#7f8c8d", "📻"},
}

var mainstreamBand = Band{
	UpperBound: 0, // no bound; catches everything else
	Multiplier: 1,
	Name:       TierMainstream,
	Color:      "#95a5a6",
	Emoji:      "🏟️",
}

// ClassifyTier maps a listeners-at-discovery count to its tier band.
// Total and deterministic over non-negative inputs.
func ClassifyTier(listeners int) Band {
	for _, b := range tierTable {
		if listeners < b.UpperBound {
			return b
		}
	}
	return mainstreamBand
}

// multiplierCaps limit the tier multiplier by how big the artist
// eventually became: discovering someone who stayed tiny should not pay
// out the full obscurity bonus. First cap with current < upperBound
// applies; artists at or above 100k are uncapped.
var multiplierCaps = []struct {
	upperBound int
	cap        float64
}{
	{10_000, 2},
	{50_000, 4},
	{100_000, 6},
}

func capMultiplier(current int, multiplier float64) float64 {
	for _, c := range multiplierCaps {
		if current < c.upperBound {
			if multiplier > c.cap {
				return c.cap
			}
			return multiplier
		}
	}
	return multiplier
}
