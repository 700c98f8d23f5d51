// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/raidlog/internal/domain/catalog"
)

// ErrInvalidRaid marks input rejected at the boundary.
var ErrInvalidRaid = errors.New("invalid raid")

// Raid is one logged session. ID and CreatedAt are assigned once by the
// service; everything else comes from RaidInput and is replaced as a whole on
// edit.
type Raid struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Successful   bool      `json:"successful"`
	Map          string    `json:"map"`
	Condition    *string   `json:"condition"`       // nil means the default condition
	Squad        []string  `json:"squad"`           // teammate names, as typed
	Risk         *float64  `json:"risk_value"`      // value brought in
	Recovered    *float64  `json:"recovered_value"` // value extracted, success only
	Legacy       *float64  `json:"legacy_value,omitempty"`
	DurationMins *float64  `json:"duration_mins"`
	StartMins    *float64  `json:"start_mins"` // in-game countdown at spawn
	Kills        *int      `json:"kills"`
}

// RaidInput is the user-editable part of a Raid.
type RaidInput struct {
	Successful   bool     `json:"successful"`
	Map          string   `json:"map"`
	Condition    *string  `json:"condition"`
	Squad        []string `json:"squad"`
	Risk         *float64 `json:"risk_value"`
	Recovered    *float64 `json:"recovered_value"`
	DurationMins *float64 `json:"duration_mins"`
	StartMins    *float64 `json:"start_mins"`
	Kills        *int     `json:"kills"`
}

// NewRaid builds a Raid from input plus the identity assigned by the caller.
func NewRaid(id string, createdAt time.Time, in RaidInput) Raid {
	in = in.Clone()
	if in.Squad == nil {
		in.Squad = []string{}
	}
	return Raid{
		ID:           id,
		CreatedAt:    createdAt,
		Successful:   in.Successful,
		Map:          in.Map,
		Condition:    in.Condition,
		Squad:        in.Squad,
		Risk:         in.Risk,
		Recovered:    in.Recovered,
		DurationMins: in.DurationMins,
		StartMins:    in.StartMins,
		Kills:        in.Kills,
	}
}

// Input returns the editable fields of r.
func (r Raid) Input() RaidInput {
	return RaidInput{
		Successful:   r.Successful,
		Map:          r.Map,
		Condition:    r.Condition,
		Squad:        r.Squad,
		Risk:         r.Risk,
		Recovered:    r.Recovered,
		DurationMins: r.DurationMins,
		StartMins:    r.StartMins,
		Kills:        r.Kills,
	}.Clone()
}

// Replace returns r with its editable fields swapped for in. Identity and
// the legacy value are kept.
func (r Raid) Replace(in RaidInput) Raid {
	next := NewRaid(r.ID, r.CreatedAt, in)
	next.Legacy = cloneFloat(r.Legacy)
	return next
}

// ConditionOrDefault returns the raid condition, or catalog.DefaultCondition.
func (r Raid) ConditionOrDefault() string {
	if r.Condition == nil || *r.Condition == "" {
		return catalog.DefaultCondition
	}
	return *r.Condition
}

// Clone returns a deep copy so callers can mutate freely.
func (in RaidInput) Clone() RaidInput {
	out := in
	if in.Squad != nil {
		out.Squad = append([]string(nil), in.Squad...)
	}
	out.Condition = cloneString(in.Condition)
	out.Risk = cloneFloat(in.Risk)
	out.Recovered = cloneFloat(in.Recovered)
	out.DurationMins = cloneFloat(in.DurationMins)
	out.StartMins = cloneFloat(in.StartMins)
	if in.Kills != nil {
		k := *in.Kills
		out.Kills = &k
	}
	return out
}

// MergeJSON applies a JSON merge patch to a copy of in. Keys absent from
// patch keep their value; explicit nulls clear optional fields.
func (in RaidInput) MergeJSON(patch []byte) (RaidInput, error) {
	out := in.Clone()
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return RaidInput{}, fmt.Errorf("%w: %v", ErrInvalidRaid, err)
	}
	return out, nil
}

// Validate checks in against the catalog and the value constraints.
func (in RaidInput) Validate() error {
	if !catalog.IsKnownMap(in.Map) {
		return fmt.Errorf("%w: unknown map %q", ErrInvalidRaid, in.Map)
	}
	if in.Condition != nil && *in.Condition != "" && !catalog.IsConditionForMap(in.Map, *in.Condition) {
		return fmt.Errorf("%w: condition %q not available on %s", ErrInvalidRaid, *in.Condition, in.Map)
	}
	for _, name := range in.Squad {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty squad member", ErrInvalidRaid)
		}
	}
	switch {
	case negative(in.Risk):
		return fmt.Errorf("%w: risk value must not be negative", ErrInvalidRaid)
	case negative(in.Recovered):
		return fmt.Errorf("%w: recovered value must not be negative", ErrInvalidRaid)
	case in.Recovered != nil && !in.Successful:
		return fmt.Errorf("%w: recovered value requires a successful raid", ErrInvalidRaid)
	case in.DurationMins != nil && *in.DurationMins <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidRaid)
	case negative(in.StartMins):
		return fmt.Errorf("%w: start marker must not be negative", ErrInvalidRaid)
	case in.Kills != nil && *in.Kills < 0:
		return fmt.Errorf("%w: kills must not be negative", ErrInvalidRaid)
	}
	return nil
}

func negative(v *float64) bool { return v != nil && *v < 0 }

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
