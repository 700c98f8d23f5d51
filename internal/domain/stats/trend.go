package stats

import "github.com/okian/raidlog/internal/domain/model"

// Trend window and thresholds.
const (
	RecentWindow   = 10   // newest raids compared against the whole history
	TrendThreshold = 10.0 // percentage points
)

// TrendDirection summarises recent form.
type TrendDirection string

// Trend directions.
const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// Trend compares the success rate of the newest raids with the overall rate.
type Trend struct {
	Recent  float64        `json:"recent"`
	Overall float64        `json:"overall"`
	Trend   TrendDirection `json:"trend"`
}

// PerformanceTrend expects raids newest first. Below RecentWindow raids the
// sample is too small and the trend is always stable.
func PerformanceTrend(raids []model.Raid) Trend {
	recent := raids[:min(len(raids), RecentWindow)]
	t := Trend{
		Recent:  successRate(recent),
		Overall: successRate(raids),
		Trend:   TrendStable,
	}
	if len(raids) < RecentWindow {
		return t
	}
	switch diff := t.Recent - t.Overall; {
	case diff > TrendThreshold:
		t.Trend = TrendImproving
	case diff < -TrendThreshold:
		t.Trend = TrendDeclining
	}
	return t
}

func successRate(raids []model.Raid) float64 {
	var wins int
	for _, r := range raids {
		if r.Successful {
			wins++
		}
	}
	return percent(wins, len(raids))
}
