package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/pkg/logger"
	"github.com/okian/raidlog/pkg/metrics"
)

// Export is a full snapshot of the log.
type Export struct {
	Raids     []model.Raid     `json:"raids"`
	Teammates []model.Teammate `json:"teammates"`
}

// ImportResult counts what an import changed.
type ImportResult struct {
	RaidsAdded     int `json:"raids_added"`
	RaidsSkipped   int `json:"raids_skipped"`
	TeammatesTotal int `json:"teammates_total"`
}

// Export returns both collections.
func (s *Service) Export(ctx context.Context) (Export, error) {
	raids, err := s.store.Raids(ctx)
	if err != nil {
		return Export{}, err
	}
	roster, err := s.store.Teammates(ctx)
	if err != nil {
		return Export{}, err
	}
	s.logger.Debug(ctx, "data exported", logger.Int("raids", len(raids)), logger.Int("teammates", len(roster)))
	return Export{Raids: raids, Teammates: roster}, nil
}

// Import loads a snapshot. With replace the snapshot overwrites the log;
// otherwise raids with unknown ids are merged in and the rosters are
// combined, keeping the later LastPlayed per name. Raids only need an id and
// a timestamp; older exports may carry fields current validation rejects.
func (s *Service) Import(ctx context.Context, data Export, replace bool) (ImportResult, error) {
	incoming := slices.Clone(data.Raids)
	for i, r := range incoming {
		if r.ID == "" || r.CreatedAt.IsZero() {
			return ImportResult{}, fmt.Errorf("%w: raid %d needs an id and created_at", ErrInvalidImport, i)
		}
		if r.Squad == nil {
			incoming[i].Squad = []string{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var raids []model.Raid
	var roster []model.Teammate
	var res ImportResult
	if replace {
		raids = dedupeRaids(incoming)
		res.RaidsAdded = len(raids)
		res.RaidsSkipped = len(incoming) - len(raids)
		roster = mergeRosters(nil, data.Teammates)
	} else {
		current, err := s.store.Raids(ctx)
		if err != nil {
			return ImportResult{}, err
		}
		currentRoster, err := s.store.Teammates(ctx)
		if err != nil {
			return ImportResult{}, err
		}
		raids = current
		for _, r := range incoming {
			if indexOf(raids, r.ID) >= 0 {
				res.RaidsSkipped++
				continue
			}
			raids = append(raids, r)
			res.RaidsAdded++
		}
		roster = mergeRosters(currentRoster, data.Teammates)
	}
	slices.SortStableFunc(raids, func(a, b model.Raid) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	res.TeammatesTotal = len(roster)

	if err := s.store.SaveRaids(ctx, raids); err != nil {
		return ImportResult{}, err
	}
	if err := s.store.SaveTeammates(ctx, roster); err != nil {
		return ImportResult{}, err
	}

	metrics.RecordRaidsImported(res.RaidsAdded)
	metrics.UpdateStoredRaids(len(raids))
	metrics.UpdateTeammates(len(roster))
	s.logger.Info(ctx, "data imported",
		logger.Bool("replace", replace),
		logger.Int("added", res.RaidsAdded),
		logger.Int("skipped", res.RaidsSkipped))
	return res, nil
}

func dedupeRaids(in []model.Raid) []model.Raid {
	out := make([]model.Raid, 0, len(in))
	for _, r := range in {
		if indexOf(out, r.ID) < 0 {
			out = append(out, r)
		}
	}
	return out
}

// mergeRosters folds incoming into base by case-insensitive name, keeping the
// later LastPlayed, and orders the result most recently played first.
func mergeRosters(base, incoming []model.Teammate) []model.Teammate {
	out := slices.Clone(base)
	for _, t := range incoming {
		if t.Username == "" {
			continue
		}
		if i := model.FindTeammate(out, t.Username); i >= 0 {
			if t.LastPlayed.After(out[i].LastPlayed) {
				out[i].LastPlayed = t.LastPlayed
			}
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b model.Teammate) int {
		return b.LastPlayed.Compare(a.LastPlayed)
	})
	if out == nil {
		out = []model.Teammate{}
	}
	return out
}
