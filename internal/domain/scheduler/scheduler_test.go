package scheduler_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arenalab/duelrank/internal/domain/rating"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
)

func seeded(seed int64) *scheduler.Scheduler {
	return scheduler.New(scheduler.WithRand(rand.New(rand.NewSource(seed))))
}

func TestParseStrategy(t *testing.T) {
	Convey("Given strategy names", t, func() {
		Convey("Then the known names parse", func() {
			for _, name := range []string{"random", "adjacent", "weighted"} {
				s, err := scheduler.ParseStrategy(name)
				So(err, ShouldBeNil)
				So(string(s), ShouldEqual, name)
			}
		})

		Convey("And anything else is rejected", func() {
			_, err := scheduler.ParseStrategy("closest")
			So(err, ShouldEqual, scheduler.ErrUnknownStrategy)
		})
	})
}

func TestInsufficientItems(t *testing.T) {
	Convey("Given tables with fewer than 2 items", t, func() {
		sched := seeded(1)
		empty := rating.NewTable(nil, 1500)
		single := rating.NewTable([]string{"solo"}, 1500)

		Convey("Then every strategy refuses to produce a pair", func() {
			for _, strategy := range []scheduler.Strategy{
				scheduler.StrategyRandom,
				scheduler.StrategyAdjacent,
				scheduler.StrategyWeighted,
			} {
				_, _, err := sched.NextPair(empty, strategy)
				So(err, ShouldEqual, scheduler.ErrInsufficientItems)
				_, _, err = sched.NextPair(single, strategy)
				So(err, ShouldEqual, scheduler.ErrInsufficientItems)
			}
		})
	})
}

func TestRandomStrategy(t *testing.T) {
	Convey("Given a five-item table", t, func() {
		sched := seeded(7)
		table := rating.NewTable([]string{"a", "b", "c", "d", "e"}, 1500)

		Convey("When drawing many pairs", func() {
			Convey("Then both items are always distinct and known", func() {
				for i := 0; i < 200; i++ {
					a, b, err := sched.NextPair(table, scheduler.StrategyRandom)
					So(err, ShouldBeNil)
					So(a, ShouldNotEqual, b)
					_, ok := table.Score(a)
					So(ok, ShouldBeTrue)
					_, ok = table.Score(b)
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func TestAdjacentStrategy(t *testing.T) {
	Convey("Given a table with well-separated scores", t, func() {
		sched := seeded(11)
		table := rating.NewTable([]string{"low", "mid", "high"}, 1500)
		table.ApplyScores(map[string]float64{"low": 1200, "mid": 1500, "high": 1800})

		Convey("When drawing pairs", func() {
			Convey("Then only score-neighbors are ever paired", func() {
				sawLowMid := false
				sawMidHigh := false
				for i := 0; i < 100; i++ {
					a, b, err := sched.NextPair(table, scheduler.StrategyAdjacent)
					So(err, ShouldBeNil)
					pair := a + "/" + b
					So(pair, ShouldBeIn, []string{"low/mid", "mid/high"})
					sawLowMid = sawLowMid || pair == "low/mid"
					sawMidHigh = sawMidHigh || pair == "mid/high"
				}
				So(sawLowMid, ShouldBeTrue)
				So(sawMidHigh, ShouldBeTrue)
			})
		})
	})
}

func TestWeightedStrategy(t *testing.T) {
	Convey("Given items where b is much closer to a than c is", t, func() {
		sched := seeded(13)
		table := rating.NewTable([]string{"a", "b", "c"}, 1500)
		table.ApplyScores(map[string]float64{"a": 1500, "b": 1505, "c": 1700})

		Convey("When drawing 1000 weighted pairs", func() {
			withB := 0
			withC := 0
			for i := 0; i < 1000; i++ {
				x, y, err := sched.NextPair(table, scheduler.StrategyWeighted)
				So(err, ShouldBeNil)
				members := map[string]bool{x: true, y: true}
				switch {
				case members["a"] && members["b"]:
					withB++
				case members["a"] && members["c"]:
					withC++
				}
			}

			Convey("Then a pairs with b strictly more often than with c", func() {
				So(withB, ShouldBeGreaterThan, withC)
			})
		})

		Convey("When drawing repeatedly from the same table", func() {
			Convey("Then the pick does not collapse to a single pair", func() {
				seen := make(map[string]bool)
				for i := 0; i < 200; i++ {
					x, y, err := sched.NextPair(table, scheduler.StrategyWeighted)
					So(err, ShouldBeNil)
					if y < x {
						x, y = y, x
					}
					seen[x+"/"+y] = true
				}
				So(len(seen), ShouldBeGreaterThan, 1)
			})
		})
	})
}
