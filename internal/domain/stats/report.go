package stats

import (
	"slices"

	"github.com/okian/raidlog/internal/domain/model"
)

// TimePatterns bundles the time-based views.
type TimePatterns struct {
	ByDay       []StatGroup `json:"by_day"`
	ByTimeOfDay []StatGroup `json:"by_time_of_day"`
	Trend       Trend       `json:"trend"`
}

// SquadAnalysis bundles the squad views.
type SquadAnalysis struct {
	BySize     []StatGroup `json:"by_size"`
	ByTeammate []StatGroup `json:"by_teammate"`
	Combos     []StatGroup `json:"combos"`
}

// DurationAnalysis bundles the raid-length views.
type DurationAnalysis struct {
	Brackets     []StatGroup       `json:"brackets"`
	AvgByOutcome DurationByOutcome `json:"avg_by_outcome"`
}

// Report is every view for one history. Sections not selected by the
// query are left nil.
type Report struct {
	Query      string            `json:"query,omitempty"`
	Sections   []string          `json:"sections"`
	Overview   *Overview         `json:"overview,omitempty"`
	Streaks    *StreakData       `json:"streaks,omitempty"`
	Time       *TimePatterns     `json:"time,omitempty"`
	Squad      *SquadAnalysis    `json:"squad,omitempty"`
	Maps       *[]StatGroup      `json:"maps,omitempty"`
	Conditions *[]StatGroup      `json:"conditions,omitempty"`
	Spawn      *[]StatGroup      `json:"spawn,omitempty"`
	Duration   *DurationAnalysis `json:"duration,omitempty"`
	Loot       *Loot             `json:"loot,omitempty"`
}

// BuildReport computes the sections matching query over raids (newest
// first). A blank query selects every section.
func BuildReport(raids []model.Raid, query string) Report {
	rep := Report{Query: query, Sections: SearchSections(query)}
	if rep.Sections == nil {
		rep.Sections = []string{}
	}
	want := func(id string) bool { return slices.Contains(rep.Sections, id) }

	if want(SectionOverview) {
		o := Summarize(raids)
		s := Streaks(raids)
		rep.Overview, rep.Streaks = &o, &s
	}
	if want(SectionTime) {
		rep.Time = &TimePatterns{
			ByDay:       ByDayOfWeek(raids),
			ByTimeOfDay: ByTimeOfDay(raids),
			Trend:       PerformanceTrend(raids),
		}
	}
	if want(SectionSquad) {
		rep.Squad = &SquadAnalysis{
			BySize:     BySquadSize(raids),
			ByTeammate: ByTeammate(raids),
			Combos:     TeammateCombos(raids),
		}
	}
	if want(SectionMap) {
		rep.Maps = selected(ByMap(raids))
	}
	if want(SectionCondition) {
		rep.Conditions = selected(ByCondition(raids))
	}
	if want(SectionSpawn) {
		rep.Spawn = selected(BySpawnBracket(raids))
	}
	if want(SectionDuration) {
		rep.Duration = &DurationAnalysis{
			Brackets:     ByDuration(raids),
			AvgByOutcome: AvgDurationByOutcome(raids),
		}
	}
	if want(SectionLoot) {
		l := LootAnalysis(raids)
		rep.Loot = &l
	}
	return rep
}

// selected marks a group list as computed so it survives omitempty even when
// there is nothing in it.
func selected(groups []StatGroup) *[]StatGroup {
	if groups == nil {
		groups = []StatGroup{}
	}
	return &groups
}
