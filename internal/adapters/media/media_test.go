package media_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arenalab/duelrank/internal/adapters/media"
)

func TestDirLookup(t *testing.T) {
	Convey("Given a media directory with images for one set", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "films"), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "films", "vertigo.png"), []byte("img"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "films", "stalker.jpg"), []byte("img"), 0o644), ShouldBeNil)
		lookup := media.NewDirLookup(dir, "/media/")

		Convey("When the item has an image", func() {
			url, ok := lookup.ImageFor(ctx, "films", "vertigo")
			So(ok, ShouldBeTrue)
			So(url, ShouldEqual, "/media/films/vertigo.png")
		})

		Convey("When multiple extensions are possible the probe order decides", func() {
			url, ok := lookup.ImageFor(ctx, "films", "stalker")
			So(ok, ShouldBeTrue)
			So(url, ShouldEqual, "/media/films/stalker.jpg")
		})

		Convey("When the item has no image", func() {
			_, ok := lookup.ImageFor(ctx, "films", "rashomon")
			So(ok, ShouldBeFalse)
		})

		Convey("When names carry path separators", func() {
			_, ok := lookup.ImageFor(ctx, "../films", "vertigo")
			So(ok, ShouldBeFalse)
			_, ok = lookup.ImageFor(ctx, "films", "../vertigo")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNoop(t *testing.T) {
	Convey("A noop lookup never finds anything", t, func() {
		_, ok := media.Noop{}.ImageFor(context.Background(), "films", "vertigo")
		So(ok, ShouldBeFalse)
	})
}
