package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arenalab/duelrank/internal/adapters/persistence"
)

func TestFileStore(t *testing.T) {
	Convey("Given a file store over a temp directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		store, err := persistence.NewFileStore(dir)
		So(err, ShouldBeNil)

		Convey("When saving and loading a table", func() {
			scores := map[string]float64{"alpha": 1516, "beta": 1484}
			So(store.Save(ctx, "films", "user:ann", scores), ShouldBeNil)
			loaded, ok, err := store.Load(ctx, "films", "user:ann")

			Convey("Then the scores round-trip", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(loaded, ShouldResemble, scores)
			})
		})

		Convey("When loading a track that was never saved", func() {
			_, ok, err := store.Load(ctx, "films", "shared")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When saving over an existing file", func() {
			So(store.Save(ctx, "films", "shared", map[string]float64{"alpha": 1500}), ShouldBeNil)
			So(store.Save(ctx, "films", "shared", map[string]float64{"alpha": 1532}), ShouldBeNil)
			loaded, ok, err := store.Load(ctx, "films", "shared")

			Convey("Then the latest write wins", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(loaded["alpha"], ShouldEqual, 1532)
			})
		})

		Convey("When set or track names carry hostile characters", func() {
			So(store.Save(ctx, "../escape", "user/ann", map[string]float64{"x": 1}), ShouldBeNil)

			Convey("Then the file stays inside the store directory", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(filepath.Dir(filepath.Join(dir, entries[0].Name())), ShouldEqual, dir)

				loaded, ok, err := store.Load(ctx, "../escape", "user/ann")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(loaded["x"], ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		store := persistence.NewMemoryStore()

		Convey("When saving and loading", func() {
			scores := map[string]float64{"alpha": 1516}
			So(store.Save(ctx, "films", "shared", scores), ShouldBeNil)
			loaded, ok, err := store.Load(ctx, "films", "shared")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(loaded, ShouldResemble, scores)

			Convey("Then the stored copy is isolated from the caller's map", func() {
				scores["alpha"] = 0
				loaded["alpha"] = 0
				again, _, err := store.Load(ctx, "films", "shared")
				So(err, ShouldBeNil)
				So(again["alpha"], ShouldEqual, 1516)
			})
		})

		Convey("When loading an absent track", func() {
			_, ok, err := store.Load(ctx, "films", "user:bob")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("Then tracks with overlapping names stay distinct", func() {
			So(store.Save(ctx, "a", "b:c", map[string]float64{"x": 1}), ShouldBeNil)
			So(store.Save(ctx, "a:b", "c", map[string]float64{"x": 2}), ShouldBeNil)
			one, ok, _ := store.Load(ctx, "a", "b:c")
			So(ok, ShouldBeTrue)
			So(one["x"], ShouldEqual, 1)
			two, ok, _ := store.Load(ctx, "a:b", "c")
			So(ok, ShouldBeTrue)
			So(two["x"], ShouldEqual, 2)
		})
	})
}
