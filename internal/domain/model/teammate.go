package model

import (
	"sort"
	"strings"
	"time"
)

// Teammate is a roster entry, unique by case-insensitive username.
type Teammate struct {
	Username   string    `json:"username"`
	LastPlayed time.Time `json:"last_played"`
}

// UpsertTeammates returns a new roster in which every name in names is
// present with LastPlayed set to now. Names are trimmed and blank names are
// skipped; an existing entry keeps its original spelling. The result is
// ordered most recently played first.
func UpsertTeammates(roster []Teammate, names []string, now time.Time) []Teammate {
	out := append([]Teammate(nil), roster...)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if i := FindTeammate(out, name); i >= 0 {
			out[i].LastPlayed = now
			continue
		}
		out = append(out, Teammate{Username: name, LastPlayed: now})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastPlayed.After(out[j].LastPlayed)
	})
	return out
}

// FindTeammate returns the index of username in roster, or -1.
func FindTeammate(roster []Teammate, username string) int {
	for i, t := range roster {
		if strings.EqualFold(t.Username, username) {
			return i
		}
	}
	return -1
}

// FilterTeammates returns roster entries whose name contains query,
// ignoring case. A blank query returns the whole roster.
func FilterTeammates(roster []Teammate, query string) []Teammate {
	if strings.TrimSpace(query) == "" {
		return append([]Teammate(nil), roster...)
	}
	q := strings.ToLower(query)
	var out []Teammate
	for _, t := range roster {
		if strings.Contains(strings.ToLower(t.Username), q) {
			out = append(out, t)
		}
	}
	return out
}
