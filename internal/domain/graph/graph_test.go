package graph_test

import (
	"testing"
	"time"

	"github.com/busfactor/guardian/internal/domain/graph"
	"github.com/busfactor/guardian/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var asOf = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return asOf }

func TestStrength(t *testing.T) {
	Convey("Given pairwise interaction records", t, func() {
		base := model.CollaborationEdge{
			A: "a", B: "b",
			Positive:        6,
			Conflictive:     1,
			Frequency:       4,
			LastInteraction: asOf.AddDate(0, 0, -30),
		}

		Convey("When conflictive interactions accumulate", func() {
			worse := base
			worse.Conflictive = 2

			Convey("Then strength strictly decreases", func() {
				So(graph.Strength(worse, asOf), ShouldBeLessThan, graph.Strength(base, asOf))
			})
		})

		Convey("When conflict overwhelms the positive signal", func() {
			hostile := base
			hostile.Conflictive = 5

			Convey("Then strength clamps at zero, never negative", func() {
				So(graph.Strength(hostile, asOf), ShouldEqual, 0)
			})
		})

		Convey("When the interaction is recent", func() {
			Convey("Then freshness does not discount it", func() {
				undated := base
				undated.LastInteraction = time.Time{}
				So(graph.Strength(base, asOf), ShouldEqual, graph.Strength(undated, asOf))
			})
		})

		Convey("When the interaction is a year old", func() {
			stale := base
			stale.LastInteraction = asOf.AddDate(-1, 0, 0)

			Convey("Then strength decays but stays above the floor", func() {
				So(graph.Strength(stale, asOf), ShouldBeLessThan, graph.Strength(base, asOf))
				So(graph.Strength(stale, asOf), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the interaction date is missing", func() {
			undated := base
			undated.LastInteraction = time.Time{}
			veryOld := base
			veryOld.LastInteraction = asOf.AddDate(-3, 0, 0)

			Convey("Then unknown is treated as fresh, not stale", func() {
				So(graph.Strength(undated, asOf), ShouldBeGreaterThan, graph.Strength(veryOld, asOf))
			})
		})
	})
}

func TestGraphBuild(t *testing.T) {
	Convey("Given a candidate set and interaction records", t, func() {
		edges := []model.CollaborationEdge{
			{A: "a", B: "b", Positive: 5, Frequency: 3, LastInteraction: asOf.AddDate(0, 0, -10)},
			{A: "b", B: "c", Positive: 2, Frequency: 1, LastInteraction: asOf.AddDate(0, 0, -10)},
			{A: "a", B: "outsider", Positive: 9, Frequency: 9},
		}
		g := graph.Build([]string{"a", "b", "c", "d"}, edges, graph.WithNow(fixedNow))

		Convey("Then every candidate is a node", func() {
			So(g.Order(), ShouldEqual, 4)
			So(g.Has("d"), ShouldBeTrue)
			So(g.Has("outsider"), ShouldBeFalse)
		})

		Convey("Then edges outside the candidate set are ignored", func() {
			So(g.EdgeWeight("a", "outsider"), ShouldEqual, 0)
		})

		Convey("Then edge weights are symmetric", func() {
			So(g.EdgeWeight("a", "b"), ShouldEqual, g.EdgeWeight("b", "a"))
			So(g.EdgeWeight("a", "b"), ShouldBeGreaterThan, 0)
		})

		Convey("Then isolated candidates have weighted degree 0", func() {
			So(g.WeightedDegree("d"), ShouldEqual, 0)
		})

		Convey("Then degree sums incident strengths", func() {
			So(g.WeightedDegree("b"), ShouldEqual, g.EdgeWeight("a", "b")+g.EdgeWeight("b", "c"))
		})

		Convey("Then pair sums cover all unordered team pairs", func() {
			So(g.PairStrengthSum([]string{"a", "b", "c"}), ShouldEqual,
				g.EdgeWeight("a", "b")+g.EdgeWeight("b", "c")+g.EdgeWeight("a", "c"))
			So(g.PairStrengthSum([]string{"a"}), ShouldEqual, 0)
		})
	})
}
