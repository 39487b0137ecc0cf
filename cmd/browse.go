package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/pager"
	"github.com/aquafemi/libi/internal/tui"
	"github.com/spf13/cobra"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recent plays in a terminal UI",
	Long: `Display a terminal UI listing the user's recent plays with play counts
and earnings, refreshed in the background.

Keys:
  n / →   next page
  p / ←   previous page
  r       refresh now
  t       toggle dark/light theme
  u       change user
  q       quit

Logs go to libi.log in the data directory unless --log-file is given.`,
	Args: cobra.NoArgs,
	RunE: withDeps(runBrowse),
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringP("mode", "m", "", "List mode: play or artist (overrides config)")
	browseCmd.Flags().Duration("refresh", 0, "Refresh interval, e.g. 30s (overrides config)")
}

func runBrowse(cmd *cobra.Command, args []string, d *deps) error {
	// Console logging would draw over the UI
	logger := d.logger
	if flagLogFile == "" {
		logger = setupLogger(filepath.Join(d.cfg.DataDir, "libi.log"), d.logLevel)
	}

	if flagUser != "" {
		if err := d.session.SetUsername(cmd.Context(), flagUser); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
	}

	mode, _ := cmd.Flags().GetString("mode")
	recentCfg, err := d.recentConfig(mode)
	if err != nil {
		return err
	}
	source, err := d.source()
	if err != nil {
		return err
	}

	interval := d.cfg.Browse.RefreshInterval
	if refresh, _ := cmd.Flags().GetDuration("refresh"); refresh > 0 {
		interval = refresh
	}

	agg := activity.NewAggregator(source, activity.NewFeed(), recentCfg, logger)
	app := tui.New(agg, d.session, tui.Config{
		RefreshInterval: interval,
		PageSize:        d.cfg.Recent.PageSize,
		PageDelay:       pager.DefaultDelay,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
