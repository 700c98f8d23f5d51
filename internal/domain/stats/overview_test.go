package stats_test

import (
	"testing"

	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(stats.Summarize(nil), ShouldResemble, stats.Overview{})
	})

	Convey("Given wins, losses and kills", t, func() {
		got := stats.Summarize([]model.Raid{
			raid(win(), kills(3)),
			raid(kills(1)),
			raid(win()),
			raid(),
		})

		So(got.Total, ShouldEqual, 4)
		So(got.Successful, ShouldEqual, 2)
		So(got.Failed, ShouldEqual, 2)
		So(got.SuccessRate, ShouldEqual, 50)
		So(got.TotalKills, ShouldEqual, 4)
	})

	Convey("Given recorded values", t, func() {
		got := stats.Summarize([]model.Raid{
			raid(win(), risk(10000), recovered(40000)),
			raid(risk(12000)),
			raid(legacy(9000)),
		})

		Convey("Then net is loot minus recorded risk", func() {
			So(got.TotalLoot, ShouldEqual, 30000)
			So(got.TotalLoss, ShouldEqual, 12000)
			So(got.Net, ShouldEqual, 18000)
		})
	})
}

func TestAvgDurationByOutcome(t *testing.T) {
	Convey("Given raids with and without durations", t, func() {
		got := stats.AvgDurationByOutcome([]model.Raid{
			raid(win(), duration(20)),
			raid(win(), duration(30)),
			raid(win()),
			raid(duration(8)),
		})

		Convey("Then untimed raids are ignored", func() {
			So(got.Win, ShouldEqual, 25)
			So(got.Loss, ShouldEqual, 8)
		})
	})

	Convey("Given only wins", t, func() {
		got := stats.AvgDurationByOutcome([]model.Raid{raid(win(), duration(12))})
		So(got.Loss, ShouldEqual, 0)
	})
}
