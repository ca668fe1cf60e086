package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/clout/internal/adapters/cache"
	"github.com/okian/clout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		ctx := context.Background()

		c := cache.New(
			cache.WithMaxSize(2),
			cache.WithTTL(time.Minute),
			cache.WithClock(clock),
		)

		summary := func(name string) model.PlaylistSummary {
			return model.PlaylistSummary{PlaylistName: name, TrackCount: 1}
		}

		Convey("When getting a missing key", func() {
			_, ok := c.Get(ctx, "absent")

			Convey("Then it misses", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When putting and getting within the TTL", func() {
			c.Put(ctx, "p1", summary("one"))
			got, ok := c.Get(ctx, "p1")

			Convey("Then it hits with the stored summary", func() {
				So(ok, ShouldBeTrue)
				So(got.PlaylistName, ShouldEqual, "one")
			})
		})

		Convey("When the TTL elapses", func() {
			c.Put(ctx, "p1", summary("one"))
			now = now.Add(2 * time.Minute)

			Convey("Then the entry is stale", func() {
				_, ok := c.Get(ctx, "p1")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the cache is full", func() {
			c.Put(ctx, "p1", summary("one"))
			now = now.Add(time.Second)
			c.Put(ctx, "p2", summary("two"))
			now = now.Add(time.Second)
			c.Put(ctx, "p3", summary("three"))

			Convey("Then the oldest entry is evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "p1")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "p3")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When overwriting an existing key", func() {
			c.Put(ctx, "p1", summary("one"))
			c.Put(ctx, "p1", summary("one again"))

			Convey("Then size does not grow", func() {
				So(c.Size(), ShouldEqual, 1)
				got, ok := c.Get(ctx, "p1")
				So(ok, ShouldBeTrue)
				So(got.PlaylistName, ShouldEqual, "one again")
			})
		})
	})
}
