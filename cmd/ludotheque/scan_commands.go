package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ludotheque/internal/config"
	"ludotheque/internal/identification"
	"ludotheque/internal/logging"
	"ludotheque/internal/scanner"
	"ludotheque/internal/services"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var translate bool
	var depth int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the games directory and catalog new files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newScanner(ctx, translate, depth)
			if err != nil {
				return err
			}
			report, err := s.Run(cmd.Context())
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().BoolVar(&translate, "translate", false, "Translate newly cataloged games")
	cmd.Flags().IntVar(&depth, "depth", 0, "Override the configured recursion depth")
	return cmd
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var translate bool

	cmd := &cobra.Command{
		Use:   "identify <path>",
		Short: "Identify and catalog a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			identifier, err := ctx.identifier(translate)
			if err != nil {
				return err
			}
			result, err := identifier.Identify(cmd.Context(), path)
			printReport(cmd.OutOrStdout(), scanner.Report{Discovered: 1, Results: []identification.Result{result}})
			return err
		},
	}

	cmd.Flags().BoolVar(&translate, "translate", false, "Translate the game if it is newly cataloged")
	return cmd
}

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove catalog entries whose file no longer exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			removed, err := scanner.Cleanup(cmd.Context(), st.Catalog(), logging.NewComponentLogger(logger, "cleanup"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d missing file(s) from the catalog\n", removed)
			return nil
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var translate bool
	var now bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan on the configured schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			s, err := newScanner(ctx, translate, 0)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			runOnce := func() {
				if _, err := s.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					if errors.Is(err, services.ErrValidation) {
						logger.Warn("scheduled scan skipped", logging.Error(err))
						return
					}
					logging.ErrorWithContext(logger, "scheduled scan failed", "scan_failed", logging.Error(err))
				}
			}

			scheduler := cron.New()
			if _, err := scheduler.AddFunc(cfg.Scan.Schedule, runOnce); err != nil {
				return fmt.Errorf("scan.schedule: %w", err)
			}
			scheduler.Start()
			logger.Info("watching games directory",
				logging.String("games_dir", cfg.Paths.GamesDir),
				logging.String("schedule", cfg.Scan.Schedule),
			)
			if now {
				go runOnce()
			}

			<-runCtx.Done()
			<-scheduler.Stop().Done()
			logger.Info("watch stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&translate, "translate", false, "Translate newly cataloged games")
	cmd.Flags().BoolVar(&now, "now", false, "Run a scan immediately as well as on schedule")
	return cmd
}

func newScanner(ctx *commandContext, translate bool, depth int) (*scanner.Scanner, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	identifier, err := ctx.identifier(translate)
	if err != nil {
		return nil, err
	}
	st, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}
	return scanner.New(cfg, st.Catalog(), identifier, logger, scanner.WithDepth(depth)), nil
}

func printReport(out io.Writer, report scanner.Report) {
	if len(report.Results) == 0 {
		fmt.Fprintf(out, "No new files (%d discovered, %d removed)\n", report.Discovered, report.Removed)
		return
	}
	color := colorEnabled(out)
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		name := result.Name
		if result.Err != nil {
			name = result.Err.Error()
		}
		rows = append(rows, []string{
			result.Path,
			outcomeLabel(result.State, color),
			strconv.FormatUint(result.GameID, 10),
			result.Language,
			name,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Path", "Outcome", "Game", "Lang", "Name"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d discovered, %d cataloged, %d already cataloged, %d failed, %d removed\n",
		report.Discovered,
		report.Count(identification.StateCataloged),
		report.Count(identification.StateAlreadyCataloged),
		report.Count(identification.StateFailed),
		report.Removed,
	)
}
