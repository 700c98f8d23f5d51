package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/raidlog/internal/adapters/repository"
	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite configuration", t, func() {
		cfg := config.New()
		cfg.StoreDriver = config.DriverSQLite
		cfg.StoreDSN = filepath.Join(t.TempDir(), "raids.db")
		cfg.Timezone = "Asia/Tokyo"
		cfg.MaxListLimit = 7

		Convey("When a service is opened, written to and reopened", func() {
			svc, closeStore, err := service.Open(ctx, cfg)
			So(err, ShouldBeNil)
			_, err = svc.LogRaid(ctx, validInput())
			So(err, ShouldBeNil)
			So(closeStore(), ShouldBeNil)

			again, closeAgain, err := service.Open(ctx, cfg)
			So(err, ShouldBeNil)
			Reset(func() { _ = closeAgain() })

			Convey("Then the raid and the settings are there", func() {
				raids, err := again.Raids(ctx, 0)
				So(err, ShouldBeNil)
				So(len(raids), ShouldEqual, 1)
				st := again.GetStats()
				So(st["timezone"], ShouldEqual, "Asia/Tokyo")
				So(st["max_list_limit"], ShouldEqual, 7)
			})
		})
	})

	Convey("Given an unknown driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "bolt"

		Convey("Then Open fails with the store error", func() {
			_, _, err := service.Open(ctx, cfg)
			So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
		})
	})
}
