package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// exerciseKV runs the behaviour every KV implementation shares.
func exerciseKV(kv KV) {
	ctx := context.Background()

	Convey("When reading a key that was never written", func() {
		_, err := kv.Get(ctx, "missing")

		Convey("Then ErrNotFound is returned", func() {
			So(err, ShouldEqual, ErrNotFound)
		})
	})

	Convey("When a key is written and overwritten", func() {
		So(kv.Set(ctx, "k", []byte(`[1]`)), ShouldBeNil)
		So(kv.Set(ctx, "k", []byte(`[1,2]`)), ShouldBeNil)
		got, err := kv.Get(ctx, "k")

		Convey("Then the last value wins", func() {
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, `[1,2]`)
		})
	})

	Convey("When several keys are removed at once", func() {
		So(kv.Set(ctx, "a", []byte("1")), ShouldBeNil)
		So(kv.Set(ctx, "b", []byte("2")), ShouldBeNil)
		So(kv.Set(ctx, "c", []byte("3")), ShouldBeNil)
		So(kv.Remove(ctx, "a", "b", "never-set"), ShouldBeNil)

		Convey("Then only the others survive", func() {
			_, err := kv.Get(ctx, "a")
			So(err, ShouldEqual, ErrNotFound)
			_, err = kv.Get(ctx, "b")
			So(err, ShouldEqual, ErrNotFound)
			v, err := kv.Get(ctx, "c")
			So(err, ShouldBeNil)
			So(string(v), ShouldEqual, "3")
		})
	})
}

func TestMemoryKV(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		kv := NewMemoryKV()
		exerciseKV(kv)

		Convey("When a returned value is mutated", func() {
			ctx := context.Background()
			So(kv.Set(ctx, "k", []byte("abc")), ShouldBeNil)
			v, _ := kv.Get(ctx, "k")
			v[0] = 'z'

			Convey("Then the stored value is unchanged", func() {
				again, _ := kv.Get(ctx, "k")
				So(string(again), ShouldEqual, "abc")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Convey("Then every call fails", func() {
				_, err := kv.Get(ctx, "k")
				So(err, ShouldEqual, context.Canceled)
				So(kv.Set(ctx, "k", nil), ShouldEqual, context.Canceled)
				So(kv.Remove(ctx, "k"), ShouldEqual, context.Canceled)
			})
		})
	})
}

func TestSQLiteKV(t *testing.T) {
	Convey("Given a SQLite store in a temp dir", t, func() {
		path := filepath.Join(t.TempDir(), "raids.db")
		kv, err := OpenSQL(context.Background(), DriverSQLite, path)
		So(err, ShouldBeNil)
		Reset(func() { kv.Close() })

		So(kv.Driver(), ShouldEqual, DriverSQLite)
		exerciseKV(kv)

		Convey("When the store is reopened", func() {
			So(kv.Set(context.Background(), "persist", []byte("yes")), ShouldBeNil)
			So(kv.Close(), ShouldBeNil)
			again, err := OpenSQL(context.Background(), DriverSQLite, path)
			So(err, ShouldBeNil)
			kv = again

			Convey("Then written values are still there", func() {
				v, err := kv.Get(context.Background(), "persist")
				So(err, ShouldBeNil)
				So(string(v), ShouldEqual, "yes")
			})
		})
	})
}

func TestPostgresKV(t *testing.T) {
	dsn := os.Getenv("RAIDLOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RAIDLOG_TEST_POSTGRES_DSN not set, skipping postgres tests")
	}
	Convey("Given a PostgreSQL store", t, func() {
		kv, err := OpenSQL(context.Background(), DriverPostgres, dsn)
		So(err, ShouldBeNil)
		Reset(func() {
			kv.Remove(context.Background(), "missing", "k", "a", "b", "c")
			kv.Close()
		})

		exerciseKV(kv)
	})
}

func TestOpenSQLUnknownDriver(t *testing.T) {
	Convey("Given a driver that is not supported", t, func() {
		_, err := OpenSQL(context.Background(), "mysql", "dsn")

		Convey("Then OpenSQL refuses it", func() {
			So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given each configured driver", t, func() {
		ctx := context.Background()

		Convey("When the memory driver is chosen", func() {
			kv, err := Open(ctx, DriverMemory, "")
			So(err, ShouldBeNil)
			_, ok := kv.(*MemoryKV)
			So(ok, ShouldBeTrue)
		})

		Convey("When the sqlite driver is chosen", func() {
			kv, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "open.db"))
			So(err, ShouldBeNil)
			Reset(func() { kv.Close() })
			_, ok := kv.(*SQLKV)
			So(ok, ShouldBeTrue)
		})

		Convey("When an unknown driver is chosen", func() {
			_, err := Open(ctx, "bolt", "")
			So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
		})
	})
}
