package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ludotheque/internal/config"
	"ludotheque/internal/identification"
	"ludotheque/internal/logging"
	"ludotheque/internal/services"
)

// Identifier handles one discovered file.
type Identifier interface {
	Identify(ctx context.Context, path string) (identification.Result, error)
}

// Report summarizes one scan run.
type Report struct {
	RunID      string
	Started    time.Time
	Finished   time.Time
	Discovered int
	Removed    int
	Results    []identification.Result
}

// Count returns how many results ended in state.
func (r Report) Count(state identification.State) int {
	n := 0
	for _, result := range r.Results {
		if result.State == state {
			n++
		}
	}
	return n
}

// Scanner runs full catalog scans.
type Scanner struct {
	cfg        *config.Config
	catalog    Catalog
	identifier Identifier
	logger     *slog.Logger
	delay      time.Duration
	depth      int
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithDepth overrides the configured recursion depth.
func WithDepth(depth int) Option {
	return func(s *Scanner) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// New creates a scanner over the configured games directory.
func New(cfg *config.Config, catalog Catalog, identifier Identifier, logger *slog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:        cfg,
		catalog:    catalog,
		identifier: identifier,
		logger:     logging.NewComponentLogger(logger, "scanner"),
		delay:      time.Duration(cfg.Scan.FileDelayMS) * time.Millisecond,
		depth:      cfg.Scan.Depth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans the library once. Per-file failures are recorded in the report;
// only an unreachable store or cancellation stops the run early.
func (s *Scanner) Run(ctx context.Context) (Report, error) {
	lock := flock.New(s.cfg.ScanLockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Report{}, services.Wrap(services.ErrConfiguration, "scan", "lock", s.cfg.ScanLockPath(), err)
	}
	if !locked {
		return Report{}, services.Wrap(services.ErrValidation, "scan", "lock", "another scan is already running", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release scan lock", logging.Error(err))
		}
	}()

	report := Report{RunID: uuid.NewString(), Started: time.Now()}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("scan started",
		logging.String("games_dir", s.cfg.Paths.GamesDir),
		logging.Int("depth", s.depth),
	)

	// Cleanup finishes before any catalog write below.
	var paths []string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := Discover(s.cfg.Paths.GamesDir, s.depth, s.cfg.Extensions())
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "scan", "discover", s.cfg.Paths.GamesDir, err)
		}
		paths = found
		return nil
	})
	group.Go(func() error {
		removed, err := Cleanup(groupCtx, s.catalog, logger)
		report.Removed = removed
		return err
	})
	if err := group.Wait(); err != nil {
		report.Finished = time.Now()
		return report, err
	}
	report.Discovered = len(paths)
	if report.Removed > 0 {
		logger.Info("removed missing files from catalog", logging.Int("removed", report.Removed))
	}

	for idx, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()
			return report, err
		}
		if idx > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				report.Finished = time.Now()
				return report, err
			}
		}
		result, err := s.identifier.Identify(ctx, path)
		report.Results = append(report.Results, result)
		if err != nil && services.IsFatal(err) {
			report.Finished = time.Now()
			return report, err
		}
	}

	report.Finished = time.Now()
	logger.Info("scan finished",
		logging.Int("discovered", report.Discovered),
		logging.Int("removed", report.Removed),
		logging.Int("cataloged", report.Count(identification.StateCataloged)),
		logging.Int("already_cataloged", report.Count(identification.StateAlreadyCataloged)),
		logging.Int("failed", report.Count(identification.StateFailed)),
		logging.Duration("elapsed", report.Finished.Sub(report.Started)),
	)
	return report, nil
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
