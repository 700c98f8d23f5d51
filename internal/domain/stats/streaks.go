package stats

import (
	"slices"

	"github.com/okian/raidlog/internal/domain/model"
)

// StreakType tells wins from losses.
type StreakType string

// Streak types.
const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// Streak is a run of same-outcome raids.
type Streak struct {
	Type  StreakType `json:"type"`
	Count int        `json:"count"`
}

// StreakData holds the open run plus the longest runs ever seen.
type StreakData struct {
	Current   Streak `json:"current"`
	BestWin   int    `json:"best_win"`
	WorstLoss int    `json:"worst_loss"`
}

// Streaks scans raids oldest first. Current is the run still open at the
// most recent raid, not necessarily the longest.
func Streaks(raids []model.Raid) StreakData {
	out := StreakData{Current: Streak{Type: StreakNone}}
	if len(raids) == 0 {
		return out
	}

	// Reverse first so raids sharing a timestamp keep the order a
	// newest-first list implies.
	chrono := slices.Clone(raids)
	slices.Reverse(chrono)
	slices.SortStableFunc(chrono, func(a, b model.Raid) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	var run Streak
	closeRun := func() {
		switch run.Type {
		case StreakWin:
			out.BestWin = max(out.BestWin, run.Count)
		case StreakLoss:
			out.WorstLoss = max(out.WorstLoss, run.Count)
		}
	}
	for _, r := range chrono {
		t := StreakLoss
		if r.Successful {
			t = StreakWin
		}
		if t == run.Type {
			run.Count++
			continue
		}
		closeRun()
		run = Streak{Type: t, Count: 1}
	}
	closeRun()

	out.Current = run
	return out
}
