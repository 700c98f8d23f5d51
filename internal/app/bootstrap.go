package service

import (
	"context"
	"fmt"

	"github.com/okian/raidlog/internal/adapters/repository"
	"github.com/okian/raidlog/internal/config"
)

// Open builds a Service over the store cfg names, in cfg's timezone. Extra
// options are applied last. The returned func closes the store.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, func() error, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("timezone: %w", err)
	}
	kv, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	repo := repository.New(kv)
	base := []Option{
		WithStore(repo),
		WithLocation(loc),
		WithMaxListLimit(cfg.MaxListLimit),
	}
	return New(append(base, opts...)...), repo.Close, nil
}
