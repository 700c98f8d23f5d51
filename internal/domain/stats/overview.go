package stats

import "github.com/okian/raidlog/internal/domain/model"

// Overview holds the headline counts.
type Overview struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
	TotalKills  int     `json:"total_kills"`
	TotalLoot   float64 `json:"total_loot"`
	TotalLoss   float64 `json:"total_loss"`
	Net         float64 `json:"net"`
}

// Summarize counts outcomes and kills. Loot and loss follow LootAnalysis.
func Summarize(raids []model.Raid) Overview {
	o := Overview{Total: len(raids)}
	for _, r := range raids {
		if r.Successful {
			o.Successful++
		} else {
			o.Failed++
		}
		if r.Kills != nil {
			o.TotalKills += *r.Kills
		}
	}
	o.SuccessRate = percent(o.Successful, o.Total)
	loot := LootAnalysis(raids)
	o.TotalLoot, o.TotalLoss = loot.TotalLoot, loot.TotalLoss
	o.Net = o.TotalLoot - o.TotalLoss
	return o
}

// DurationByOutcome is the mean raid length per outcome, in minutes.
type DurationByOutcome struct {
	Win  float64 `json:"win"`
	Loss float64 `json:"loss"`
}

// AvgDurationByOutcome averages durations over raids that recorded one.
func AvgDurationByOutcome(raids []model.Raid) DurationByOutcome {
	var winSum, lossSum float64
	var wins, losses int
	for _, r := range raids {
		if r.DurationMins == nil {
			continue
		}
		if r.Successful {
			winSum += *r.DurationMins
			wins++
		} else {
			lossSum += *r.DurationMins
			losses++
		}
	}
	var out DurationByOutcome
	if wins > 0 {
		out.Win = winSum / float64(wins)
	}
	if losses > 0 {
		out.Loss = lossSum / float64(losses)
	}
	return out
}
