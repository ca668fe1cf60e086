package aggregate_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/clout/internal/domain/aggregate"
	"github.com/okian/clout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given an aggregator with a pinned clock", t, func() {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		agg := aggregate.New(aggregate.WithClock(func() time.Time { return now }))
		ctx := context.Background()

		obs := func(artistID, track string, followers int, monthsAgo int) model.TrackObservation {
			return model.TrackObservation{
				ArtistID:         artistID,
				ArtistName:       "artist " + artistID,
				TrackName:        track,
				AddedAt:          now.Add(-time.Duration(monthsAgo) * 30 * 24 * time.Hour),
				CurrentFollowers: followers,
			}
		}

		Convey("When aggregating an empty playlist", func() {
			_, err := agg.Aggregate(ctx, "empty", nil)

			Convey("Then it fails with ErrNoValidTracks instead of a zero-track summary", func() {
				So(err, ShouldEqual, aggregate.ErrNoValidTracks)
			})
		})

		Convey("When every observation is malformed", func() {
			bad := []model.TrackObservation{
				{TrackName: "no artist", AddedAt: now, CurrentFollowers: 100},
				{ArtistID: "a1", AddedAt: now, CurrentFollowers: 100}, // no track payload
			}
			_, err := agg.Aggregate(ctx, "broken", bad)

			Convey("Then it fails with ErrNoValidTracks", func() {
				So(err, ShouldEqual, aggregate.ErrNoValidTracks)
			})
		})

		Convey("When the playlist holds four identical tracks", func() {
			tracks := []model.TrackObservation{
				obs("a1", "t1", 300_000, 24),
				obs("a1", "t2", 300_000, 24),
				obs("a1", "t3", 300_000, 24),
				obs("a1", "t4", 300_000, 24),
			}
			summary, err := agg.Aggregate(ctx, "uniform", tracks)

			Convey("Then normalization scales the average by sqrt(track count)", func() {
				So(err, ShouldBeNil)
				So(summary.TrackCount, ShouldEqual, 4)
				score := summary.Tracks[0].Score
				So(summary.TotalScore, ShouldEqual, 4*score)
				So(summary.AverageScore, ShouldEqual, float64(score))
				So(summary.NormalizedScore, ShouldEqual, float64(2*score))
			})
		})

		Convey("When observations are malformed or unscorable", func() {
			tracks := []model.TrackObservation{
				obs("a1", "good", 250_000, 18),
				{TrackName: "missing artist", AddedAt: now, CurrentFollowers: 9_000},
				obs("a3", "zero followers", 0, 18), // estimates to 0, non-finite score
				obs("a4", "also good", 80_000, 6),
			}
			summary, err := agg.Aggregate(ctx, "mixed", tracks)

			Convey("Then they are skipped silently and counted separately", func() {
				So(err, ShouldBeNil)
				So(summary.TrackCount, ShouldEqual, 2)
				So(summary.SkippedTracks, ShouldEqual, 2)
				So(len(summary.Tracks), ShouldEqual, 2)
			})
		})

		Convey("When scores differ", func() {
			tracks := []model.TrackObservation{
				obs("small", "stayed small", 4_000, 24),
				obs("big", "blew up", 3_000_000, 24),
				obs("mid", "did fine", 150_000, 24),
			}
			summary, err := agg.Aggregate(ctx, "sorted", tracks)

			Convey("Then tracks are ordered by score descending", func() {
				So(err, ShouldBeNil)
				So(summary.TrackCount, ShouldEqual, 3)
				for i := 1; i < len(summary.Tracks); i++ {
					So(summary.Tracks[i].Score, ShouldBeLessThanOrEqualTo, summary.Tracks[i-1].Score)
				}
			})
		})

		Convey("When aggregating the same playlist twice", func() {
			tracks := []model.TrackObservation{
				obs("a1", "t1", 42_000, 12),
				obs("a2", "t2", 900_000, 30),
			}
			first, err1 := agg.Aggregate(ctx, "repeat", tracks)
			second, err2 := agg.Aggregate(ctx, "repeat", tracks)

			Convey("Then results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := agg.Aggregate(cancelled, "cancelled", []model.TrackObservation{obs("a1", "t1", 1_000, 3)})

			Convey("Then the context error propagates", func() {
				So(err, ShouldEqual, context.Canceled)
			})
		})
	})
}
