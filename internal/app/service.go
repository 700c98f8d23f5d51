// Package service implements the raid log operations the HTTP API and the
// raidctl CLI depend on.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/raidlog/internal/adapters/repository"
	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/internal/domain/stats"
	"github.com/okian/raidlog/pkg/logger"
	"github.com/okian/raidlog/pkg/metrics"
)

// Sentinel errors.
var (
	ErrRaidNotFound     = errors.New("raid not found")
	ErrTeammateNotFound = errors.New("teammate not found")
	ErrInvalidTeammate  = errors.New("invalid teammate")
	ErrInvalidImport    = errors.New("invalid import")
)

const defaultMaxListLimit = 500

// Store persists the two collections.
type Store interface {
	Raids(ctx context.Context) ([]model.Raid, error)
	SaveRaids(ctx context.Context, raids []model.Raid) error
	Teammates(ctx context.Context) ([]model.Teammate, error)
	SaveTeammates(ctx context.Context, roster []model.Teammate) error
	Clear(ctx context.Context) error
}

// RaidPatch turns the current input of a raid into its replacement.
type RaidPatch func(model.RaidInput) (model.RaidInput, error)

// ReplaceWith swaps every editable field for those of in.
func ReplaceWith(in model.RaidInput) RaidPatch {
	return func(model.RaidInput) (model.RaidInput, error) { return in.Clone(), nil }
}

// MergeJSON overlays the fields present in a JSON document.
func MergeJSON(doc []byte) RaidPatch {
	return func(cur model.RaidInput) (model.RaidInput, error) { return cur.MergeJSON(doc) }
}

// Service owns the raid log. A single mutex serialises read-modify-write
// cycles so concurrent callers do not lose updates.
type Service struct {
	mu sync.Mutex

	store        Store
	logger       logger.Logger
	location     *time.Location
	now          func() time.Time
	newID        func() string
	maxListLimit int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence layer. The default is an in-memory store.
func WithStore(store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLocation sets the zone reports are bucketed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithMaxListLimit caps how many raids Raids returns.
func WithMaxListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxListLimit = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:        repository.New(repository.NewMemoryKV()),
		logger:       logger.Nop(),
		location:     time.Local,
		now:          time.Now,
		newID:        uuid.NewString,
		maxListLimit: defaultMaxListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogRaid validates in, stores it as the newest raid and records its squad
// in the roster. If the roster cannot be saved the raid is removed again.
func (s *Service) LogRaid(ctx context.Context, in model.RaidInput) (model.Raid, error) {
	if err := in.Validate(); err != nil {
		return model.Raid{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raids, err := s.store.Raids(ctx)
	if err != nil {
		return model.Raid{}, err
	}
	now := s.now().UTC()
	raid := model.NewRaid(s.newID(), now, in)
	raids = slices.Insert(raids, 0, raid)
	if err := s.store.SaveRaids(ctx, raids); err != nil {
		return model.Raid{}, err
	}

	rosterSize, err := s.touchTeammates(ctx, raid.Squad, now)
	if err != nil {
		// A raid is only logged together with its roster update.
		if rbErr := s.store.SaveRaids(ctx, raids[1:]); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("roll back raid %s: %w", raid.ID, rbErr))
		}
		return model.Raid{}, err
	}

	metrics.RecordRaidLogged()
	metrics.UpdateStoredRaids(len(raids))
	metrics.UpdateTeammates(rosterSize)
	s.logger.Info(ctx, "raid logged",
		logger.String("id", raid.ID),
		logger.String("map", raid.Map),
		logger.Bool("successful", raid.Successful),
		logger.Int("squad", len(raid.Squad)))
	return raid, nil
}

func (s *Service) touchTeammates(ctx context.Context, names []string, now time.Time) (int, error) {
	roster, err := s.store.Teammates(ctx)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return len(roster), nil
	}
	roster = model.UpsertTeammates(roster, names, now)
	if err := s.store.SaveTeammates(ctx, roster); err != nil {
		return 0, err
	}
	return len(roster), nil
}

// UpdateRaid applies patch to raid id and re-validates the result. ID and
// CreatedAt never change; the roster is left alone.
func (s *Service) UpdateRaid(ctx context.Context, id string, patch RaidPatch) (model.Raid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raids, err := s.store.Raids(ctx)
	if err != nil {
		return model.Raid{}, err
	}
	i := indexOf(raids, id)
	if i < 0 {
		return model.Raid{}, fmt.Errorf("%w: %s", ErrRaidNotFound, id)
	}
	in, err := patch(raids[i].Input())
	if err != nil {
		return model.Raid{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Raid{}, err
	}
	raids[i] = raids[i].Replace(in)
	if err := s.store.SaveRaids(ctx, raids); err != nil {
		return model.Raid{}, err
	}

	metrics.RecordRaidUpdated()
	s.logger.Info(ctx, "raid updated", logger.String("id", id))
	return raids[i], nil
}

// DeleteRaid removes raid id.
func (s *Service) DeleteRaid(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raids, err := s.store.Raids(ctx)
	if err != nil {
		return err
	}
	i := indexOf(raids, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRaidNotFound, id)
	}
	raids = slices.Delete(raids, i, i+1)
	if err := s.store.SaveRaids(ctx, raids); err != nil {
		return err
	}

	metrics.RecordRaidDeleted()
	metrics.UpdateStoredRaids(len(raids))
	s.logger.Info(ctx, "raid deleted", logger.String("id", id))
	return nil
}

// Raid returns raid id.
func (s *Service) Raid(ctx context.Context, id string) (model.Raid, error) {
	raids, err := s.store.Raids(ctx)
	if err != nil {
		return model.Raid{}, err
	}
	i := indexOf(raids, id)
	if i < 0 {
		return model.Raid{}, fmt.Errorf("%w: %s", ErrRaidNotFound, id)
	}
	return raids[i], nil
}

// Raids returns up to limit raids, newest first. A non-positive limit or
// one above the configured maximum is clamped to the maximum.
func (s *Service) Raids(ctx context.Context, limit int) ([]model.Raid, error) {
	raids, err := s.store.Raids(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	if len(raids) > limit {
		raids = raids[:limit]
	}
	s.logger.Debug(ctx, "raids listed", logger.Int("count", len(raids)))
	return raids, nil
}

// LastRaid returns the newest raid.
func (s *Service) LastRaid(ctx context.Context) (model.Raid, error) {
	raids, err := s.store.Raids(ctx)
	if err != nil {
		return model.Raid{}, err
	}
	if len(raids) == 0 {
		return model.Raid{}, ErrRaidNotFound
	}
	return raids[0], nil
}

// Teammates returns the roster, most recently played first.
func (s *Service) Teammates(ctx context.Context) ([]model.Teammate, error) {
	return s.store.Teammates(ctx)
}

// SearchTeammates filters the roster by a case-insensitive substring.
func (s *Service) SearchTeammates(ctx context.Context, query string) ([]model.Teammate, error) {
	roster, err := s.store.Teammates(ctx)
	if err != nil {
		return nil, err
	}
	out := model.FilterTeammates(roster, query)
	if out == nil {
		out = []model.Teammate{}
	}
	return out, nil
}

// AddTeammate adds name to the roster, or marks an existing entry as just
// played, and returns the stored entry.
func (s *Service) AddTeammate(ctx context.Context, name string) (model.Teammate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Teammate{}, fmt.Errorf("%w: username must not be blank", ErrInvalidTeammate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.store.Teammates(ctx)
	if err != nil {
		return model.Teammate{}, err
	}
	roster = model.UpsertTeammates(roster, []string{name}, s.now().UTC())
	if err := s.store.SaveTeammates(ctx, roster); err != nil {
		return model.Teammate{}, err
	}
	metrics.UpdateTeammates(len(roster))
	t := roster[model.FindTeammate(roster, name)]
	s.logger.Info(ctx, "teammate added", logger.String("username", t.Username))
	return t, nil
}

// RemoveTeammate drops name from the roster, ignoring case.
func (s *Service) RemoveTeammate(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.store.Teammates(ctx)
	if err != nil {
		return err
	}
	i := model.FindTeammate(roster, strings.TrimSpace(name))
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTeammateNotFound, name)
	}
	roster = slices.Delete(roster, i, i+1)
	if err := s.store.SaveTeammates(ctx, roster); err != nil {
		return err
	}
	metrics.UpdateTeammates(len(roster))
	s.logger.Info(ctx, "teammate removed", logger.String("username", name))
	return nil
}

// Report builds the stats report for query over every stored raid, with
// timestamps moved into the configured location.
func (s *Service) Report(ctx context.Context, query string) (stats.Report, error) {
	raids, err := s.store.Raids(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	start := time.Now()
	for i := range raids {
		raids[i].CreatedAt = raids[i].CreatedAt.In(s.location)
	}
	slices.SortStableFunc(raids, func(a, b model.Raid) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	rep := stats.BuildReport(raids, query)

	filtered := strings.TrimSpace(query) != ""
	metrics.RecordReportLatency(filtered, float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "report built",
		logger.Int("raids", len(raids)),
		logger.String("query", query),
		logger.Int("sections", len(rep.Sections)))
	return rep, nil
}

// Clear removes every raid and teammate.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	metrics.UpdateStoredRaids(0)
	metrics.UpdateTeammates(0)
	s.logger.Warn(ctx, "all data cleared")
	return nil
}

// Location returns the zone reports are bucketed in.
func (s *Service) Location() *time.Location { return s.location }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	ctx := context.Background()
	out := map[string]any{
		"timezone":       s.location.String(),
		"max_list_limit": s.maxListLimit,
	}
	if raids, err := s.store.Raids(ctx); err == nil {
		out["raids"] = len(raids)
		if len(raids) > 0 {
			out["last_raid_at"] = raids[0].CreatedAt
		}
		metrics.UpdateStoredRaids(len(raids))
	} else {
		out["store_error"] = err.Error()
	}
	if roster, err := s.store.Teammates(ctx); err == nil {
		out["teammates"] = len(roster)
		metrics.UpdateTeammates(len(roster))
	}
	return out
}

func indexOf(raids []model.Raid, id string) int {
	return slices.IndexFunc(raids, func(r model.Raid) bool { return r.ID == id })
}
