package stats_test

import (
	"fmt"
	"time"

	"github.com/okian/raidlog/internal/domain/model"
)

var epoch = time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC) // a Sunday morning

func f(v float64) *float64 { return &v }
func str(v string) *string { return &v }

// opt customises a raid built by raid.
type opt func(r *model.Raid)

func win() opt                  { return func(r *model.Raid) { r.Successful = true } }
func onMap(m string) opt        { return func(r *model.Raid) { r.Map = m } }
func cond(c string) opt         { return func(r *model.Raid) { r.Condition = str(c) } }
func squad(names ...string) opt { return func(r *model.Raid) { r.Squad = names } }
func risk(v float64) opt        { return func(r *model.Raid) { r.Risk = f(v) } }
func recovered(v float64) opt   { return func(r *model.Raid) { r.Recovered = f(v) } }
func legacy(v float64) opt      { return func(r *model.Raid) { r.Legacy = f(v) } }
func duration(v float64) opt    { return func(r *model.Raid) { r.DurationMins = f(v) } }
func start(v float64) opt       { return func(r *model.Raid) { r.StartMins = f(v) } }
func kills(n int) opt           { return func(r *model.Raid) { r.Kills = &n } }
func at(t time.Time) opt        { return func(r *model.Raid) { r.CreatedAt = t } }

var seq int

// raid builds a failed raid on the default map, stamped a minute after the
// previous one.
func raid(opts ...opt) model.Raid {
	seq++
	r := model.Raid{
		ID:        fmt.Sprintf("raid-%d", seq),
		CreatedAt: epoch.Add(time.Duration(seq) * time.Minute),
		Map:       "Dam Battlegrounds",
		Squad:     []string{},
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// newestFirst reverses a chronological list into storage order.
func newestFirst(chrono ...model.Raid) []model.Raid {
	out := make([]model.Raid, len(chrono))
	for i, r := range chrono {
		out[len(chrono)-1-i] = r
	}
	return out
}

// chronological restamps raids one hour apart, oldest first, and returns them
// newest first.
func chronological(raids ...model.Raid) []model.Raid {
	for i := range raids {
		raids[i].CreatedAt = epoch.Add(time.Duration(i) * time.Hour)
	}
	return newestFirst(raids...)
}
