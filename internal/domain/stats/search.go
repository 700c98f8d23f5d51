package stats

import "strings"

// Section identifiers, in display order.
const (
	SectionOverview  = "overview"
	SectionTime      = "time"
	SectionSquad     = "squad"
	SectionMap       = "map"
	SectionCondition = "condition"
	SectionSpawn     = "spawn"
	SectionDuration  = "duration"
	SectionLoot      = "loot"
)

// Section is a searchable block of the stats screen.
type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// Keywords are stored lower case.
var sections = []Section{
	{SectionOverview, "Overview", []string{"overview", "total", "success", "rate", "wins", "deaths", "streak"}},
	{SectionTime, "Time Patterns", []string{"time", "day", "week", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "morning", "afternoon", "evening", "night", "trend", "performance"}},
	{SectionSquad, "Squad Analysis", []string{"squad", "team", "teammate", "friend", "solo", "duo", "trio", "combo", "partner", "group"}},
	{SectionMap, "Map Statistics", []string{"map", "dam", "buried", "spaceport", "stella", "blue gate", "location"}},
	{SectionCondition, "Conditions", []string{"condition", "weather", "cold snap", "night raid", "storm", "electromagnetic", "hidden bunker", "locked gate", "normal"}},
	{SectionSpawn, "Spawn Time", []string{"spawn", "start", "early", "late", "join", "timer"}},
	{SectionDuration, "Raid Duration", []string{"duration", "time", "quick", "long", "minutes", "length"}},
	{SectionLoot, "Profit Analysis", []string{"loot", "value", "money", "profit", "loss", "efficiency", "credits", "bring in", "extract"}},
}

// Sections returns a copy of the section catalog.
func Sections() []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.Keywords = append([]string(nil), s.Keywords...)
		out[i] = s
	}
	return out
}

// SearchSections returns the ids of sections whose title or keywords
// contain query, ignoring case, in catalog order. A blank query matches
// every section.
func SearchSections(query string) []string {
	all := strings.TrimSpace(query) == ""
	q := strings.ToLower(query)
	var ids []string
	for _, s := range sections {
		if all || sectionMatches(s, q) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func sectionMatches(s Section, q string) bool {
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	for _, kw := range s.Keywords {
		if strings.Contains(kw, q) {
			return true
		}
	}
	return false
}
