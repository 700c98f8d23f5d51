package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/raidlog/internal/domain/model"
)

// MinComboRaids is the number of shared raids a teammate pair needs before it
// is reported.
const MinComboRaids = 2

// StatGroup aggregates the raids assigned to one bucket.
type StatGroup struct {
	Label       string  `json:"label"`
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"` // percent
	AvgLoot     float64 `json:"avg_loot"`
	TotalLoot   float64 `json:"total_loot"`
}

// Classifier assigns a raid to zero or more bucket labels. A raid is added
// once per returned label.
type Classifier func(r model.Raid) []string

// GroupBy buckets raids with classify and aggregates each bucket.
//
// With a non-nil order, buckets are emitted in that order and empty ones are
// dropped; labels outside order are ignored. With a nil order, buckets are
// emitted in order of first appearance and only exist once a raid lands in
// them.
func GroupBy(raids []model.Raid, classify Classifier, order []string) []StatGroup {
	buckets := make(map[string][]model.Raid)
	var seen []string
	for _, r := range raids {
		for _, label := range classify(r) {
			if _, ok := buckets[label]; !ok {
				seen = append(seen, label)
			}
			buckets[label] = append(buckets[label], r)
		}
	}

	labels := order
	if labels == nil {
		labels = seen
	}
	out := make([]StatGroup, 0, len(labels))
	for _, label := range labels {
		members := buckets[label]
		if len(members) == 0 {
			continue
		}
		out = append(out, newStatGroup(label, members))
	}
	return out
}

func newStatGroup(label string, raids []model.Raid) StatGroup {
	g := StatGroup{Label: label, Total: len(raids)}
	var withProfit int
	for _, r := range raids {
		if r.Successful {
			g.Successful++
		}
		if p, ok := EffectiveProfit(r); ok {
			g.TotalLoot += p
			withProfit++
		}
	}
	g.SuccessRate = percent(g.Successful, g.Total)
	if withProfit > 0 {
		g.AvgLoot = g.TotalLoot / float64(withProfit)
	}
	return g
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// bracket is an inclusive numeric range with a display label.
type bracket struct {
	label    string
	min, max float64
}

func bracketLabels(bs []bracket) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.label
	}
	return out
}

// classifyBracket files v into the first bracket containing it. nil and
// values between brackets are excluded.
func classifyBracket(bs []bracket, v *float64) []string {
	if v == nil {
		return nil
	}
	for _, b := range bs {
		if *v >= b.min && *v <= b.max {
			return []string{b.label}
		}
	}
	return nil
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ByDayOfWeek groups raids by the weekday of CreatedAt, in the timestamp's
// own location.
func ByDayOfWeek(raids []model.Raid) []StatGroup {
	return GroupBy(raids, func(r model.Raid) []string {
		return []string{weekdays[r.CreatedAt.Weekday()]}
	}, weekdays)
}

// Hour brackets are half-open: [start, end).
var timeOfDay = []struct {
	label      string
	start, end int
}{
	{"Morning (6am-12pm)", 6, 12},
	{"Afternoon (12pm-6pm)", 12, 18},
	{"Evening (6pm-12am)", 18, 24},
	{"Night (12am-6am)", 0, 6},
}

// ByTimeOfDay groups raids into four hour brackets.
func ByTimeOfDay(raids []model.Raid) []StatGroup {
	order := make([]string, len(timeOfDay))
	for i, b := range timeOfDay {
		order[i] = b.label
	}
	return GroupBy(raids, func(r model.Raid) []string {
		h := r.CreatedAt.Hour()
		for _, b := range timeOfDay {
			if h >= b.start && h < b.end {
				return []string{b.label}
			}
		}
		return nil
	}, order)
}

var squadSizes = []string{"Solo", "Duo", "Trio", "Full Squad"}

// BySquadSize groups raids by how many teammates were along.
func BySquadSize(raids []model.Raid) []StatGroup {
	return GroupBy(raids, func(r model.Raid) []string {
		return []string{squadSizes[min(len(r.Squad), len(squadSizes)-1)]}
	}, squadSizes)
}

// ByTeammate groups raids under every squad member, most played first.
func ByTeammate(raids []model.Raid) []StatGroup {
	out := GroupBy(raids, func(r model.Raid) []string { return r.Squad }, nil)
	sortByTotal(out)
	return out
}

// ComboLabel names an unordered teammate pair.
func ComboLabel(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + " + " + b
}

// TeammateCombos groups raids under every pair of squad members that played
// together. Pairs with fewer than MinComboRaids raids are dropped; the rest
// are ordered by success rate, best first.
func TeammateCombos(raids []model.Raid) []StatGroup {
	groups := GroupBy(raids, func(r model.Raid) []string {
		var pairs []string
		for i := 0; i < len(r.Squad); i++ {
			for j := i + 1; j < len(r.Squad); j++ {
				pairs = append(pairs, ComboLabel(r.Squad[i], r.Squad[j]))
			}
		}
		return pairs
	}, nil)

	out := groups[:0]
	for _, g := range groups {
		if g.Total >= MinComboRaids {
			out = append(out, g)
		}
	}
	slices.SortStableFunc(out, func(a, b StatGroup) int { return cmp.Compare(b.SuccessRate, a.SuccessRate) })
	return out
}

// ByMap groups raids by location, most played first.
func ByMap(raids []model.Raid) []StatGroup {
	out := GroupBy(raids, func(r model.Raid) []string { return []string{r.Map} }, nil)
	sortByTotal(out)
	return out
}

// ByCondition groups raids by condition, most played first. Raids without a
// condition count as the default one.
func ByCondition(raids []model.Raid) []StatGroup {
	out := GroupBy(raids, func(r model.Raid) []string { return []string{r.ConditionOrDefault()} }, nil)
	sortByTotal(out)
	return out
}

var spawnBrackets = []bracket{
	{"Early (30-25m)", 25, 30},
	{"Mid-Early (24-20m)", 20, 24},
	{"Mid (19-15m)", 15, 19},
	{"Mid-Late (14-10m)", 10, 14},
	{"Late (under 10m)", 0, 9},
}

// BySpawnBracket groups raids by the countdown shown when the player spawned.
func BySpawnBracket(raids []model.Raid) []StatGroup {
	return GroupBy(raids, func(r model.Raid) []string {
		return classifyBracket(spawnBrackets, r.StartMins)
	}, bracketLabels(spawnBrackets))
}

var durationBrackets = []bracket{
	{"Quick (under 10m)", 0, 9},
	{"Medium (10-20m)", 10, 20},
	{"Long (20m+)", 21, 999},
}

// ByDuration groups raids by time spent in the raid.
func ByDuration(raids []model.Raid) []StatGroup {
	return GroupBy(raids, func(r model.Raid) []string {
		return classifyBracket(durationBrackets, r.DurationMins)
	}, bracketLabels(durationBrackets))
}

func sortByTotal(groups []StatGroup) {
	slices.SortStableFunc(groups, func(a, b StatGroup) int { return cmp.Compare(b.Total, a.Total) })
}

// FindGroup returns the group labelled label, ignoring case.
func FindGroup(groups []StatGroup, label string) (StatGroup, bool) {
	for _, g := range groups {
		if strings.EqualFold(g.Label, label) {
			return g, true
		}
	}
	return StatGroup{}, false
}
