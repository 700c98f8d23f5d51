// Package seed generates catalog-valid raid history for demos and load.
package seed

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/catalog"
	"github.com/okian/raidlog/internal/domain/model"
)

// Generation tuning.
const (
	winChance       = 0.45
	conditionChance = 0.5
	riskChance      = 0.9
	durationChance  = 0.85
	startChance     = 0.7
	killsChance     = 0.8
	maxSquad        = 3
	maxKills        = 6
	maxStartMins    = 30
	maxGap          = 6 * time.Hour
	minGap          = 10 * time.Minute
)

// DefaultSquadPool is used when no pool is configured.
var DefaultSquadPool = []string{"Vex", "Mara", "Joon", "Ilse", "Tomasz", "Kit", "Ravi", "Oona"}

// Generator builds random raids.
type Generator struct {
	rng   *rand.Rand
	pool  []string
	newID func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSquadPool sets the names squads are drawn from.
func WithSquadPool(names []string) Option {
	return func(g *Generator) {
		if len(names) > 0 {
			g.pool = slices.Clone(names)
		}
	}
}

// WithIDGenerator overrides uuid ids on History raids.
func WithIDGenerator(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// New returns a Generator seeded from the runtime source unless WithSeed is
// given.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		pool:  DefaultSquadPool,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Input returns one raid input that passes RaidInput.Validate.
func (g *Generator) Input() model.RaidInput {
	in := model.RaidInput{
		Successful: g.chance(winChance),
		Map:        pick(g.rng, catalog.Maps),
		Squad:      g.squad(),
	}
	if g.chance(conditionChance) {
		c := pick(g.rng, catalog.ConditionsForMap(in.Map))
		in.Condition = &c
	}
	if g.chance(riskChance) {
		v := pick(g.rng, catalog.ValuePresets)
		in.Risk = &v
	}
	if in.Successful {
		v := pick(g.rng, catalog.ValuePresets)
		in.Recovered = &v
	}
	if g.chance(durationChance) {
		v := float64(1 + g.rng.IntN(int(catalog.DurationPresets[len(catalog.DurationPresets)-1])))
		in.DurationMins = &v
	}
	if g.chance(startChance) {
		v := float64(g.rng.IntN(maxStartMins + 1))
		in.StartMins = &v
	}
	if g.chance(killsChance) {
		k := g.rng.IntN(maxKills + 1)
		in.Kills = &k
	}
	return in
}

// History returns n raids ending at end, newest first, spaced by random gaps,
// plus the roster their squads imply. The result can be fed to
// Service.Import.
func (g *Generator) History(n int, end time.Time) service.Export {
	out := service.Export{Raids: make([]model.Raid, 0, max(n, 0)), Teammates: []model.Teammate{}}
	at := end.UTC()
	for range n {
		raid := model.NewRaid(g.newID(), at, g.Input())
		out.Raids = append(out.Raids, raid)
		at = at.Add(-(minGap + time.Duration(g.rng.Int64N(int64(maxGap-minGap)))))
	}
	// Oldest first so the newest raid sets LastPlayed.
	for i := len(out.Raids) - 1; i >= 0; i-- {
		r := out.Raids[i]
		out.Teammates = model.UpsertTeammates(out.Teammates, r.Squad, r.CreatedAt)
	}
	if out.Teammates == nil {
		out.Teammates = []model.Teammate{}
	}
	return out
}

func (g *Generator) squad() []string {
	size := g.rng.IntN(min(maxSquad, len(g.pool)) + 1)
	names := slices.Clone(g.pool)
	g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return names[:size]
}

func (g *Generator) chance(p float64) bool { return g.rng.Float64() < p }

func pick[T any](rng *rand.Rand, from []T) T { return from[rng.IntN(len(from))] }
