// Package catalog holds the fixed option lists a raid is logged against:
// maps, per-map conditions and the quick-pick presets offered when logging.
package catalog

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultCondition is the condition assumed when a raid carries none.
const DefaultCondition = "Normal"

// Maps lists the playable maps in display order.
var Maps = []string{
	"Dam Battlegrounds",
	"Buried City",
	"Spaceport",
	"Stella Montis",
	"Blue Gate",
}

// UniversalConditions are offered on every map.
var UniversalConditions = []string{
	DefaultCondition,
	"Cold Snap",
	"Night Raid",
	"Electromagnetic Storm",
}

// mapSpecificConditions are only offered on the named map.
var mapSpecificConditions = map[string][]string{
	"Spaceport": {"Hidden Bunker"},
	"Blue Gate": {"Locked Gate"},
}

// Presets offered by the raid form.
var (
	ValuePresets    = []float64{100000, 90000, 80000, 75000, 70000, 65000, 60000, 55000, 50000, 45000, 40000, 35000, 30000, 25000, 20000, 15000, 10000}
	DurationPresets = []float64{10, 15, 20, 25, 30, 35, 40, 45}
	KillPresets     = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
)

// Conditions returns every known condition, universal first.
func Conditions() []string {
	out := append([]string(nil), UniversalConditions...)
	for _, m := range Maps {
		out = append(out, mapSpecificConditions[m]...)
	}
	return out
}

// ConditionsForMap returns the conditions selectable on mapName.
func ConditionsForMap(mapName string) []string {
	out := append([]string(nil), UniversalConditions...)
	return append(out, mapSpecificConditions[mapName]...)
}

// IsKnownMap reports whether name is in the map catalog.
func IsKnownMap(name string) bool {
	for _, m := range Maps {
		if m == name {
			return true
		}
	}
	return false
}

// IsConditionForMap reports whether condition can occur on mapName.
func IsConditionForMap(mapName, condition string) bool {
	for _, c := range ConditionsForMap(mapName) {
		if c == condition {
			return true
		}
	}
	return false
}

// FormatValue renders a credit value the way the raid list shows it:
// "-" for missing, thousands abbreviated as "k".
func FormatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	if math.Abs(*v) >= 1000 {
		return fmt.Sprintf("%.0fk", *v/1000)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatDuration renders minutes as "N min".
func FormatDuration(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64) + " min"
}
