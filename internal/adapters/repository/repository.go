package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/pkg/metrics"
)

// Collection keys.
const (
	RaidsKey     = "raids"
	TeammatesKey = "teammates"
)

// Repository stores the raid and teammate collections as JSON arrays.
type Repository struct {
	kv KV
}

// New wraps kv.
func New(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Raids returns the stored raids in stored order (newest first). An absent
// collection is empty.
func (r *Repository) Raids(ctx context.Context) ([]model.Raid, error) {
	raids := []model.Raid{}
	if err := r.load(ctx, RaidsKey, &raids); err != nil {
		return nil, err
	}
	return raids, nil
}

// SaveRaids replaces the raid collection.
func (r *Repository) SaveRaids(ctx context.Context, raids []model.Raid) error {
	if raids == nil {
		raids = []model.Raid{}
	}
	return r.save(ctx, RaidsKey, raids)
}

// Teammates returns the stored roster.
func (r *Repository) Teammates(ctx context.Context) ([]model.Teammate, error) {
	roster := []model.Teammate{}
	if err := r.load(ctx, TeammatesKey, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// SaveTeammates replaces the roster.
func (r *Repository) SaveTeammates(ctx context.Context, roster []model.Teammate) error {
	if roster == nil {
		roster = []model.Teammate{}
	}
	return r.save(ctx, TeammatesKey, roster)
}

// Clear removes both collections.
func (r *Repository) Clear(ctx context.Context) error {
	start := time.Now()
	err := r.kv.Remove(ctx, RaidsKey, TeammatesKey)
	observe("remove", start, err)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}

func (r *Repository) load(ctx context.Context, key string, dst any) error {
	start := time.Now()
	data, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		observe("get", start, nil)
		return nil
	}
	observe("get", start, err)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordStoreError("decode")
		return fmt.Errorf("load %s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	start := time.Now()
	err = r.kv.Set(ctx, key, data)
	observe("set", start, err)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(op)
	}
}
