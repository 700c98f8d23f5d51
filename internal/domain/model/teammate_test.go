package model_test

import (
	"testing"
	"time"

	"github.com/okian/raidlog/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestUpsertTeammates(t *testing.T) {
	convey.Convey("Given a roster", t, func() {
		earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		now := earlier.Add(48 * time.Hour)
		roster := []model.Teammate{
			{Username: "Alice", LastPlayed: earlier},
			{Username: "bob", LastPlayed: earlier.Add(time.Hour)},
		}

		convey.Convey("When names are upserted", func() {
			out := model.UpsertTeammates(roster, []string{" alice ", "", "carol"}, now)

			convey.Convey("Then existing names are matched case-insensitively", func() {
				convey.So(len(out), convey.ShouldEqual, 3)
				i := model.FindTeammate(out, "ALICE")
				convey.So(i, convey.ShouldBeGreaterThanOrEqualTo, 0)
				convey.So(out[i].Username, convey.ShouldEqual, "Alice")
				convey.So(out[i].LastPlayed, convey.ShouldEqual, now)
			})

			convey.Convey("And the roster is ordered by recency", func() {
				convey.So(out[2].Username, convey.ShouldEqual, "bob")
			})

			convey.Convey("And the input roster is not modified", func() {
				convey.So(roster[0].LastPlayed, convey.ShouldEqual, earlier)
			})
		})

		convey.Convey("When filtering", func() {
			convey.So(len(model.FilterTeammates(roster, "")), convey.ShouldEqual, 2)
			convey.So(model.FilterTeammates(roster, "LI"), convey.ShouldResemble, roster[:1])
			convey.So(model.FilterTeammates(roster, "zed"), convey.ShouldBeEmpty)
		})

		convey.Convey("When looking up a missing name", func() {
			convey.So(model.FindTeammate(roster, "dave"), convey.ShouldEqual, -1)
		})
	})
}
