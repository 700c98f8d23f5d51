// Package cli implements the raidctl command tree. Commands work on the
// configured store directly, without the HTTP server.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/config"
	"github.com/okian/raidlog/internal/seed"
	"github.com/okian/raidlog/pkg/logger"
)

// Opener builds the service a command runs against. The returned func
// releases it.
type Opener func(ctx context.Context, configPath string) (*service.Service, func() error, error)

type app struct {
	open       Opener
	copy       func(string) error
	now        func() time.Time
	seedOpts   []seed.Option
	configPath string
}

// Option configures the command tree.
type Option func(*app)

// WithOpener replaces the config-driven service opener.
func WithOpener(o Opener) Option {
	return func(a *app) {
		if o != nil {
			a.open = o
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(a *app) {
		if fn != nil {
			a.copy = fn
		}
	}
}

// WithClock overrides time.Now for seeding.
func WithClock(now func() time.Time) Option {
	return func(a *app) {
		if now != nil {
			a.now = now
		}
	}
}

// WithSeedOptions passes options to the seed generator.
func WithSeedOptions(opts ...seed.Option) Option {
	return func(a *app) { a.seedOpts = append(a.seedOpts, opts...) }
}

// NewRootCommand returns the raidctl command with every subcommand attached.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		open: openFromConfig,
		copy: clipboard.WriteAll,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "raidctl",
		Short: "Log raids and read your stats from the terminal",
		Long: `raidctl works on the same store as the raidlog server. It reads
configuration from $RAIDLOG_CONFIG (or --config) and RAIDLOG_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (overrides $RAIDLOG_CONFIG)")

	root.AddCommand(
		a.logCmd(), a.listCmd(), a.showCmd(), a.deleteCmd(),
		a.statsCmd(), a.sectionsCmd(),
		a.teammatesCmd(),
		a.exportCmd(), a.importCmd(), a.seedCmd(), a.clearCmd(),
	)
	return root
}

// Execute runs raidctl against os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// withService opens the service for the duration of fn.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, done, err := a.open(ctx, a.configPath)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()
	return fn(ctx, svc)
}

func openFromConfig(ctx context.Context, path string) (*service.Service, func() error, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(ctx, path)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	log := logger.Named("raidctl")
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn(ctx, "memory store selected, nothing will persist after this command")
	}
	return service.Open(ctx, cfg, service.WithLogger(log))
}
