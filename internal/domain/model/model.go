// Package model contains domain models passed between layers.
package model

import "time"

// TrackObservation is one playlist entry as supplied by the fetch layer.
// Fields mirror the Spotify playlist-item and artist payloads.
type TrackObservation struct {
	ArtistID          string    // Spotify artist id
	ArtistName        string    // display name of the primary artist
	TrackName         string    // display name of the track
	AddedAt           time.Time // when the curator added the track
	CurrentFollowers  int       // artist follower count today, >= 0
	CurrentPopularity int       // Spotify popularity index, 0-100
}

// Tier names a discovery bucket: how obscure the artist was when the
// curator added the track.
type Tier string

// ScoreBreakdown is the full per-track scoring result. It is created
// once per observation and never mutated afterwards.
type ScoreBreakdown struct {
	ArtistID             string    `json:"artistId"`
	ArtistName           string    `json:"artistName"`
	TrackName            string    `json:"trackName"`
	AddedAt              time.Time `json:"addedAt"`
	Score                int       `json:"score"`
	AdjustedGrowthPct    int       `json:"adjustedGrowthPct"`
	RawGrowthPct         int       `json:"rawGrowthPct"`
	AbsoluteGrowth       int       `json:"absoluteGrowth"`
	VolumeWeight         float64   `json:"volumeWeight"`
	DiscoveryTier        Tier      `json:"discoveryTier"`
	TierColor            string    `json:"tierColor"`
	TierEmoji            string    `json:"tierEmoji"`
	TierMultiplier       float64   `json:"tierMultiplier"`
	CappedMultiplier     float64   `json:"cappedMultiplier"`
	RelevanceFactor      float64   `json:"relevanceFactor"`
	ListenersAtDiscovery int       `json:"listenersAtDiscovery"`
	CurrentListeners     int       `json:"currentListeners"`
}

// PlaylistSummary is the playlist-level aggregation result.
// Tracks are ordered by score descending; equal scores keep the
// playlist order.
type PlaylistSummary struct {
	PlaylistName    string           `json:"playlistName"`
	TrackCount      int              `json:"trackCount"`
	SkippedTracks   int              `json:"skippedTracks"`
	TotalScore      int              `json:"totalClout"`
	AverageScore    float64          `json:"averageClout"`
	NormalizedScore float64          `json:"normalizedScore"`
	Tracks          []ScoreBreakdown `json:"tracks"`
}
