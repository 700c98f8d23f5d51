// Package stats derives analytical views from a raid history.
//
// Every function here is pure: it reads the slice it is given, never
// modifies it, and returns freshly allocated results. Callers pass raids
// newest first, the order the repository stores them in.
package stats

import "github.com/okian/raidlog/internal/domain/model"

// Source names the field a resolved value was taken from.
type Source int

// Resolution order, highest priority first within each outcome.
const (
	SourceNone      Source = iota // nothing usable on the record
	SourceNet                     // recovered minus risk
	SourceRecovered               // recovered, no risk recorded
	SourceRisk                    // risk of a failed raid
	SourceLegacy                  // pre-split single value
)

func (s Source) String() string {
	switch s {
	case SourceNet:
		return "net"
	case SourceRecovered:
		return "recovered"
	case SourceRisk:
		return "risk"
	case SourceLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// Resolution is the value a raid contributes to profit (on success) or loss
// (on failure).
type Resolution struct {
	Value  float64
	Source Source
}

// Defined reports whether a value was resolved.
func (r Resolution) Defined() bool { return r.Source != SourceNone }

// Resolve applies the resolution order for the raid's outcome. A successful
// raid resolves to its profit, a failed one to its loss. The legacy value is
// read as recovered on success and as risk on failure.
func Resolve(r model.Raid) Resolution {
	if r.Successful {
		switch {
		case r.Recovered != nil && r.Risk != nil:
			return Resolution{Value: *r.Recovered - *r.Risk, Source: SourceNet}
		case r.Recovered != nil:
			return Resolution{Value: *r.Recovered, Source: SourceRecovered}
		case r.Legacy != nil:
			return Resolution{Value: *r.Legacy, Source: SourceLegacy}
		}
		return Resolution{}
	}
	switch {
	case r.Risk != nil:
		return Resolution{Value: *r.Risk, Source: SourceRisk}
	case r.Legacy != nil:
		return Resolution{Value: *r.Legacy, Source: SourceLegacy}
	}
	return Resolution{}
}

// EffectiveProfit returns the profit of a successful raid. ok is false for
// failed raids and for raids with nothing to resolve.
func EffectiveProfit(r model.Raid) (profit float64, ok bool) {
	if !r.Successful {
		return 0, false
	}
	res := Resolve(r)
	return res.Value, res.Defined()
}

// EffectiveLoss returns the loss of a failed raid. ok is false for
// successful raids and for raids with nothing to resolve.
func EffectiveLoss(r model.Raid) (loss float64, ok bool) {
	if r.Successful {
		return 0, false
	}
	res := Resolve(r)
	return res.Value, res.Defined()
}
