package stats

import "github.com/okian/raidlog/internal/domain/model"

// LootBucket is profit aggregated over the successful raids of one bucket.
type LootBucket struct {
	AvgLoot   float64 `json:"avg_loot"`
	TotalLoot float64 `json:"total_loot"`
	Count     int     `json:"count"`
}

// Loot is the profit and loss picture of a history.
type Loot struct {
	TotalLoot      float64               `json:"total_loot"`
	TotalLoss      float64               `json:"total_loss"`
	AvgLootOnWin   float64               `json:"avg_loot_on_win"`
	AvgLossOnDeath float64               `json:"avg_loss_on_death"`
	LootPerMinute  float64               `json:"loot_per_minute"`
	ByMap          map[string]LootBucket `json:"by_map"`
	ByCondition    map[string]LootBucket `json:"by_condition"`
}

// LootAnalysis aggregates profit over successful raids with a resolvable
// profit. Loss totals only count failed raids that recorded a risk value;
// legacy-only deaths are left out of them.
func LootAnalysis(raids []model.Raid) Loot {
	out := Loot{
		ByMap:       make(map[string]LootBucket),
		ByCondition: make(map[string]LootBucket),
	}

	var wins, losses int
	var timedProfit, timedMinutes float64
	for _, r := range raids {
		if !r.Successful {
			if r.Risk != nil {
				out.TotalLoss += *r.Risk
				losses++
			}
			continue
		}
		profit, ok := EffectiveProfit(r)
		if !ok {
			continue
		}
		wins++
		out.TotalLoot += profit
		addLoot(out.ByMap, r.Map, profit)
		addLoot(out.ByCondition, r.ConditionOrDefault(), profit)
		if r.DurationMins != nil && *r.DurationMins > 0 {
			timedProfit += profit
			timedMinutes += *r.DurationMins
		}
	}

	if wins > 0 {
		out.AvgLootOnWin = out.TotalLoot / float64(wins)
	}
	if losses > 0 {
		out.AvgLossOnDeath = out.TotalLoss / float64(losses)
	}
	if timedMinutes > 0 {
		out.LootPerMinute = timedProfit / timedMinutes
	}
	finishLoot(out.ByMap)
	finishLoot(out.ByCondition)
	return out
}

func addLoot(m map[string]LootBucket, key string, profit float64) {
	b := m[key]
	b.TotalLoot += profit
	b.Count++
	m[key] = b
}

func finishLoot(m map[string]LootBucket) {
	for k, b := range m {
		b.AvgLoot = b.TotalLoot / float64(b.Count)
		m[k] = b
	}
}
