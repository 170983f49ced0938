package history_test

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arenalab/duelrank/internal/domain/history"
	"github.com/arenalab/duelrank/internal/domain/model"
	"github.com/arenalab/duelrank/internal/domain/rating"
)

const tolerance = 1e-9

// pairCycler generates a fresh (a, b) pair per call, cycling through the
// table's items so consecutive pairs differ.
func pairCycler() history.PairFunc {
	n := 0
	return func(t *rating.Table) (string, string, error) {
		items := t.Items()
		a := items[n%len(items)]
		b := items[(n+1)%len(items)]
		n++
		return a, b, nil
	}
}

func newTrack() (*rating.Table, *history.History) {
	table := rating.NewTable([]string{"a", "b", "c"}, 1500)
	return table, history.New(table, 32)
}

func TestAdvance(t *testing.T) {
	Convey("Given an empty history", t, func() {
		_, h := newTrack()
		gen := pairCycler()

		So(h.Cursor(), ShouldEqual, -1)
		So(h.IsReplaying(), ShouldBeFalse)

		Convey("When advancing at the frontier", func() {
			p0, err := h.Advance(gen)
			So(err, ShouldBeNil)

			Convey("Then a new entry is appended under the cursor", func() {
				So(h.Cursor(), ShouldEqual, 0)
				So(h.Len(), ShouldEqual, 1)
				So(p0.ID, ShouldNotBeEmpty)
				cur, ok := h.Current()
				So(ok, ShouldBeTrue)
				So(cur.ID, ShouldEqual, p0.ID)
			})

			Convey("And advancing after going back re-presents without re-rolling", func() {
				p1, err := h.Advance(gen)
				So(err, ShouldBeNil)
				_, undone := h.GoBack()
				So(undone, ShouldBeTrue)
				So(h.IsReplaying(), ShouldBeTrue)

				again, err := h.Advance(gen)
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, p1.ID)
				So(h.Len(), ShouldEqual, 2)
				So(h.IsReplaying(), ShouldBeFalse)
			})
		})

		Convey("When the generator fails", func() {
			failing := func(*rating.Table) (string, string, error) {
				return "", "", fmt.Errorf("boom")
			}
			_, err := h.Advance(failing)

			Convey("Then the failure surfaces and nothing is appended", func() {
				So(err, ShouldNotBeNil)
				So(h.Len(), ShouldEqual, 0)
				So(h.Cursor(), ShouldEqual, -1)
			})
		})
	})
}

func TestRecordAndGoBack(t *testing.T) {
	Convey("Given a history with two judged positions", t, func() {
		table, h := newTrack()
		gen := pairCycler()

		_, err := h.Advance(gen)
		So(err, ShouldBeNil)
		So(h.Record(model.OutcomeAWins), ShouldBeNil)
		preSecond := table.Scores()

		p1, err := h.Advance(gen)
		So(err, ShouldBeNil)
		So(h.Record(model.OutcomeBWins), ShouldBeNil)
		So(h.LogLen(), ShouldEqual, 2)

		Convey("When going back one step", func() {
			pair, undone := h.GoBack()

			Convey("Then the table is exactly the pre-judgment snapshot", func() {
				So(undone, ShouldBeTrue)
				for item, want := range preSecond {
					got, _ := table.Score(item)
					So(got, ShouldAlmostEqual, want, tolerance)
				}
				So(h.LogLen(), ShouldEqual, 1)
				So(h.Cursor(), ShouldEqual, 0)
				So(pair.ID, ShouldNotEqual, p1.ID)
			})

			Convey("And going back again at position 0 is a no-op", func() {
				_, undone := h.GoBack()
				So(undone, ShouldBeFalse)
				So(h.Cursor(), ShouldEqual, 0)
			})
		})
	})
}

func TestRecordSkip(t *testing.T) {
	Convey("Given a presented pair", t, func() {
		table, h := newTrack()
		_, err := h.Advance(pairCycler())
		So(err, ShouldBeNil)
		before := table.Scores()

		Convey("When recording a skip", func() {
			So(h.Record(model.OutcomeSkip), ShouldBeNil)

			Convey("Then no score moves but the log grows", func() {
				for item, want := range before {
					got, _ := table.Score(item)
					So(got, ShouldAlmostEqual, want, tolerance)
				}
				So(h.LogLen(), ShouldEqual, 1)
			})
		})
	})
}

func TestRecordWithoutPair(t *testing.T) {
	Convey("Given an empty history", t, func() {
		_, h := newTrack()

		Convey("When recording before any pair was presented", func() {
			err := h.Record(model.OutcomeTie)

			Convey("Then it fails", func() {
				So(err, ShouldEqual, history.ErrNoCurrentPair)
			})
		})
	})
}

func TestReplayRecording(t *testing.T) {
	Convey("Given a history navigated behind its frontier", t, func() {
		table, h := newTrack()
		gen := pairCycler()

		_, err := h.Advance(gen)
		So(err, ShouldBeNil)
		So(h.Record(model.OutcomeAWins), ShouldBeNil)
		_, err = h.Advance(gen)
		So(err, ShouldBeNil)
		So(h.Record(model.OutcomeAWins), ShouldBeNil)
		_, undone := h.GoBack()
		So(undone, ShouldBeTrue)
		So(h.IsReplaying(), ShouldBeTrue)

		Convey("When re-recording a different outcome for the replayed position", func() {
			before := table.Scores()
			So(h.Record(model.OutcomeBWins), ShouldBeNil)

			Convey("Then the owning table still mutates", func() {
				moved := false
				for item, was := range before {
					now, _ := table.Score(item)
					if now != was {
						moved = true
					}
				}
				So(moved, ShouldBeTrue)
				So(h.IsReplaying(), ShouldBeTrue)
			})
		})
	})
}

func TestAppendTruncatesForwardHistory(t *testing.T) {
	Convey("Given a history with a redo entry beyond the cursor", t, func() {
		_, h := newTrack()
		gen := pairCycler()

		_, err := h.Advance(gen)
		So(err, ShouldBeNil)
		So(h.Record(model.OutcomeAWins), ShouldBeNil)
		p1, err := h.Advance(gen)
		So(err, ShouldBeNil)
		_, undone := h.GoBack()
		So(undone, ShouldBeTrue)
		So(h.Len(), ShouldEqual, 2)

		Convey("When a new pair lands while behind the frontier", func() {
			fresh := model.Pair{ID: "fresh", A: "b", B: "c"}
			h.Append(fresh)

			Convey("Then the stale forward entry is discarded", func() {
				So(h.Len(), ShouldEqual, 2)
				cur, ok := h.Current()
				So(ok, ShouldBeTrue)
				So(cur.ID, ShouldEqual, "fresh")
				So(cur.ID, ShouldNotEqual, p1.ID)
				So(h.IsReplaying(), ShouldBeFalse)
			})
		})
	})
}

func TestRevertLast(t *testing.T) {
	Convey("Given a coordinator-fed track with one applied judgment", t, func() {
		table, h := newTrack()
		before := table.Scores()
		h.Append(model.Pair{ID: "p-1", A: "a", B: "b"})
		So(h.Record(model.OutcomeAWins), ShouldBeNil)

		Convey("When reverting with the matching pair id", func() {
			So(h.RevertLast("p-1"), ShouldBeTrue)

			Convey("Then table, log, and sequence are fully unwound", func() {
				for item, want := range before {
					got, _ := table.Score(item)
					So(got, ShouldAlmostEqual, want, tolerance)
				}
				So(h.Len(), ShouldEqual, 0)
				So(h.LogLen(), ShouldEqual, 0)
				So(h.Cursor(), ShouldEqual, -1)
			})
		})

		Convey("When the frontier has moved past the pair", func() {
			h.Append(model.Pair{ID: "p-2", A: "b", B: "c"})
			So(h.Record(model.OutcomeBWins), ShouldBeNil)

			Convey("Then reverting the earlier pair is refused", func() {
				So(h.RevertLast("p-1"), ShouldBeFalse)
				So(h.Len(), ShouldEqual, 2)
			})
		})
	})
}
