package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/raidlog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()

	Convey("Given a repository over an empty store", t, func() {
		kv := NewMemoryKV()
		repo := New(kv)

		Convey("When nothing has been saved", func() {
			raids, err := repo.Raids(ctx)
			So(err, ShouldBeNil)
			roster, err := repo.Teammates(ctx)
			So(err, ShouldBeNil)

			Convey("Then both collections are empty, not nil", func() {
				So(raids, ShouldNotBeNil)
				So(raids, ShouldBeEmpty)
				So(roster, ShouldNotBeNil)
				So(roster, ShouldBeEmpty)
			})
		})

		Convey("When raids are saved", func() {
			created := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
			risk := 12000.0
			in := []model.Raid{
				{ID: "b", CreatedAt: created.Add(time.Hour), Map: "Spaceport", Squad: []string{"ann"}, Successful: true},
				{ID: "a", CreatedAt: created, Map: "Dam Battlegrounds", Squad: []string{}, Risk: &risk},
			}
			So(repo.SaveRaids(ctx, in), ShouldBeNil)

			Convey("Then they come back in stored order", func() {
				out, err := repo.Raids(ctx)
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 2)
				So(out[0].ID, ShouldEqual, "b")
				So(out[1].CreatedAt.Equal(created), ShouldBeTrue)
				So(*out[1].Risk, ShouldEqual, 12000)
			})

			Convey("And the blob is a JSON array under the raids key", func() {
				raw, err := kv.Get(ctx, RaidsKey)
				So(err, ShouldBeNil)
				So(string(raw), ShouldStartWith, `[{"id":"b"`)
			})
		})

		Convey("When a nil roster is saved", func() {
			So(repo.SaveTeammates(ctx, nil), ShouldBeNil)

			Convey("Then an empty array is stored", func() {
				raw, _ := kv.Get(ctx, TeammatesKey)
				So(string(raw), ShouldEqual, "[]")
			})
		})

		Convey("When the stored raids are not valid JSON", func() {
			So(kv.Set(ctx, RaidsKey, []byte("{not json")), ShouldBeNil)
			_, err := repo.Raids(ctx)

			Convey("Then ErrCorrupt is returned", func() {
				So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
			})
		})

		Convey("When the data is cleared", func() {
			So(repo.SaveRaids(ctx, []model.Raid{{ID: "x", Squad: []string{}}}), ShouldBeNil)
			So(repo.SaveTeammates(ctx, []model.Teammate{{Username: "ann"}}), ShouldBeNil)
			So(repo.Clear(ctx), ShouldBeNil)

			Convey("Then both keys are gone", func() {
				_, err := kv.Get(ctx, RaidsKey)
				So(err, ShouldEqual, ErrNotFound)
				_, err = kv.Get(ctx, TeammatesKey)
				So(err, ShouldEqual, ErrNotFound)
			})
		})
	})
}
