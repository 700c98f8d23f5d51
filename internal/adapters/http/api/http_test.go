package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/raidlog/internal/adapters/http/api"
	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// brokenStore fails every call.
type brokenStore struct{}

var errDisk = errors.New("disk on fire")

func (brokenStore) Raids(context.Context) ([]model.Raid, error)           { return nil, errDisk }
func (brokenStore) SaveRaids(context.Context, []model.Raid) error         { return errDisk }
func (brokenStore) Teammates(context.Context) ([]model.Teammate, error)   { return nil, errDisk }
func (brokenStore) SaveTeammates(context.Context, []model.Teammate) error { return errDisk }
func (brokenStore) Clear(context.Context) error                           { return errDisk }

func newMux(opts ...service.Option) *http.ServeMux {
	ids := 0
	base := []service.Option{
		service.WithLocation(time.UTC),
		service.WithIDGenerator(func() string { ids++; return fmt.Sprintf("r%d", ids) }),
	}
	svc := service.New(append(base, opts...)...)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

const winBody = `{"successful":true,"map":"Spaceport","squad":["ann","bob"],"risk_value":10000,"recovered_value":40000,"duration_mins":20}`

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux()

		Convey("When probing liveness", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]string](w)["status"], ShouldEqual, "ok")
		})

		Convey("When scraping metrics after a request", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "raidlog_service_http_requests_total")
		})

		Convey("When reading the status", func() {
			do(mux, http.MethodPost, "/raids", winBody)
			w := do(mux, http.MethodGet, "/status", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			s := decode[map[string]any](w)
			So(s["raids"], ShouldEqual, 1.0)
			So(s["teammates"], ShouldEqual, 2.0)
		})
	})
}

func TestRaidRoutes(t *testing.T) {
	Convey("Given the API over an empty log", t, func() {
		mux := newMux()

		Convey("When a raid is posted", func() {
			w := do(mux, http.MethodPost, "/raids", winBody)

			Convey("Then it is created with an id", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Location"), ShouldEqual, "/raids/r1")
				raid := decode[model.Raid](w)
				So(raid.ID, ShouldEqual, "r1")
				So(raid.Squad, ShouldResemble, []string{"ann", "bob"})
			})

			Convey("And it can be read back, listed and found as the last raid", func() {
				So(do(mux, http.MethodGet, "/raids/r1", "").Code, ShouldEqual, http.StatusOK)
				list := decode[[]model.Raid](do(mux, http.MethodGet, "/raids?limit=5", ""))
				So(len(list), ShouldEqual, 1)
				last := decode[model.Raid](do(mux, http.MethodGet, "/raids/last", ""))
				So(last.ID, ShouldEqual, "r1")
			})

			Convey("And it can be patched", func() {
				w := do(mux, http.MethodPatch, "/raids/r1", `{"kills":2}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(*decode[model.Raid](w).Kills, ShouldEqual, 2)
			})

			Convey("And it can be replaced", func() {
				w := do(mux, http.MethodPut, "/raids/r1", `{"map":"Blue Gate","condition":"Locked Gate"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				raid := decode[model.Raid](w)
				So(raid.Successful, ShouldBeFalse)
				So(*raid.Condition, ShouldEqual, "Locked Gate")
			})

			Convey("And it can be deleted once", func() {
				So(do(mux, http.MethodDelete, "/raids/r1", "").Code, ShouldEqual, http.StatusNoContent)
				w := do(mux, http.MethodDelete, "/raids/r1", "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[map[string]string](w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When bad input is sent", func() {
			cases := []struct {
				name, method, target, body string
			}{
				{"malformed json", http.MethodPost, "/raids", `{"map":`},
				{"unknown field", http.MethodPost, "/raids", `{"map":"Spaceport","loot":1}`},
				{"unknown map", http.MethodPost, "/raids", `{"map":"Atlantis"}`},
				{"recovered on a death", http.MethodPost, "/raids", `{"map":"Spaceport","recovered_value":5}`},
				{"bad limit", http.MethodGet, "/raids?limit=-2", ""},
			}
			for _, tc := range cases {
				Convey("Then "+tc.name+" is a 400", func() {
					w := do(mux, tc.method, tc.target, tc.body)
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(decode[map[string]string](w)["code"], ShouldEqual, "bad_request")
				})
			}
		})

		Convey("When there is nothing yet", func() {
			So(do(mux, http.MethodGet, "/raids/last", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/raids/missing", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPatch, "/raids/missing", `{}`).Code, ShouldEqual, http.StatusNotFound)
			list := decode[[]model.Raid](do(mux, http.MethodGet, "/raids", ""))
			So(list, ShouldNotBeNil)
			So(list, ShouldBeEmpty)
		})
	})
}

func TestTeammateRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux()
		So(do(mux, http.MethodPost, "/teammates", `{"username":"Alice"}`).Code, ShouldEqual, http.StatusOK)
		So(do(mux, http.MethodPost, "/teammates", `{"username":"Malik"}`).Code, ShouldEqual, http.StatusOK)

		Convey("When listing with a query", func() {
			roster := decode[[]model.Teammate](do(mux, http.MethodGet, "/teammates?q=ALI", ""))
			So(len(roster), ShouldEqual, 2)
			none := decode[[]model.Teammate](do(mux, http.MethodGet, "/teammates?q=zz", ""))
			So(none, ShouldBeEmpty)
		})

		Convey("When adding a blank name", func() {
			So(do(mux, http.MethodPost, "/teammates", `{"username":"  "}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When removing", func() {
			So(do(mux, http.MethodDelete, "/teammates/alice", "").Code, ShouldEqual, http.StatusNoContent)
			So(do(mux, http.MethodDelete, "/teammates/alice", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsRoutes(t *testing.T) {
	Convey("Given a few raids", t, func() {
		mux := newMux()
		do(mux, http.MethodPost, "/raids", winBody)
		do(mux, http.MethodPost, "/raids", `{"map":"Spaceport","risk_value":20000}`)

		Convey("When the full report is requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			rep := decode[map[string]any](w)

			Convey("Then every section is present", func() {
				So(len(rep["sections"].([]any)), ShouldEqual, 8)
				overview := rep["overview"].(map[string]any)
				So(overview["total"], ShouldEqual, 2.0)
				So(overview["success_rate"], ShouldEqual, 50.0)
			})
		})

		Convey("When a filtered report is requested", func() {
			rep := decode[map[string]any](do(mux, http.MethodGet, "/stats?q=profit", ""))

			Convey("Then only the matching section is present", func() {
				So(rep["sections"], ShouldResemble, []any{"loot"})
				So(rep["overview"], ShouldBeNil)
				loot := rep["loot"].(map[string]any)
				So(loot["total_loot"], ShouldEqual, 30000.0)
				So(loot["total_loss"], ShouldEqual, 20000.0)
			})
		})

		Convey("When sections are searched", func() {
			res := decode[map[string]any](do(mux, http.MethodGet, "/stats/sections?q=friend", ""))
			sections := res["sections"].([]any)
			So(len(sections), ShouldEqual, 1)
			So(sections[0].(map[string]any)["id"], ShouldEqual, "squad")

			empty := decode[map[string]any](do(mux, http.MethodGet, "/stats/sections?q=zzz", ""))
			So(empty["sections"], ShouldBeEmpty)
		})

		Convey("When the catalog is requested", func() {
			cat := decode[map[string]any](do(mux, http.MethodGet, "/catalog", ""))
			So(len(cat["maps"].([]any)), ShouldEqual, 5)
			conds := cat["conditions"].(map[string]any)
			So(conds["Spaceport"], ShouldContain, "Hidden Bunker")
			So(conds["Dam Battlegrounds"], ShouldNotContain, "Hidden Bunker")
		})
	})
}

func TestDataRoutes(t *testing.T) {
	Convey("Given a log with one raid", t, func() {
		mux := newMux()
		do(mux, http.MethodPost, "/raids", winBody)

		Convey("When exported and imported into a fresh server", func() {
			export := do(mux, http.MethodGet, "/export", "")
			So(export.Code, ShouldEqual, http.StatusOK)
			So(export.Header().Get("Content-Disposition"), ShouldContainSubstring, "attachment")

			other := newMux(service.WithIDGenerator(func() string { return "other" }))
			w := do(other, http.MethodPost, "/import?replace=true", export.Body.String())

			Convey("Then the raid and roster come across", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[service.ImportResult](w)
				So(res.RaidsAdded, ShouldEqual, 1)
				So(res.TeammatesTotal, ShouldEqual, 2)
				So(do(other, http.MethodGet, "/raids/r1", "").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the replace flag is not a boolean", func() {
			So(do(mux, http.MethodPost, "/import?replace=maybe", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an import has a raid without an id", func() {
			body := `{"raids":[{"map":"Spaceport","created_at":"2024-01-01T00:00:00Z"}],"teammates":[]}`
			So(do(mux, http.MethodPost, "/import", body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When all data is deleted", func() {
			So(do(mux, http.MethodDelete, "/data", "").Code, ShouldEqual, http.StatusNoContent)
			list := decode[[]model.Raid](do(mux, http.MethodGet, "/raids", ""))
			So(list, ShouldBeEmpty)
		})
	})
}

func TestStoreFailures(t *testing.T) {
	Convey("Given a service whose store is down", t, func() {
		mux := newMux(service.WithStore(brokenStore{}))

		Convey("Then reads and writes answer 500", func() {
			for _, target := range []string{"/raids", "/teammates", "/stats", "/export"} {
				w := do(mux, http.MethodGet, target, "")
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode[map[string]string](w)["code"], ShouldEqual, "internal_error")
			}
			So(do(mux, http.MethodPost, "/raids", winBody).Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("Then status reports the failure instead of counts", func() {
			s := decode[map[string]any](do(mux, http.MethodGet, "/status", ""))
			So(s["store_error"], ShouldEqual, errDisk.Error())
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given a wrapped cause", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("parse", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "parse: boom")
		})
	})

	Convey("Given a bare kind", t, func() {
		err := api.NewKind("lookup", api.ErrNotFound)
		So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "lookup: not found")
	})
}
