package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquafemi/libi/internal/api"
	"github.com/spf13/cobra"
)

// snapshotMaxAge is how long cached recent-activity snapshots are kept.
const snapshotMaxAge = 7 * 24 * time.Hour

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve listening stats as JSON over HTTP",
	Long: `Run a local HTTP server exposing the same data as the other commands
as JSON:

  GET /api/users/{user}/recent          ?mode=&limit=&page=&page_size=&cached=1
  GET /api/users/{user}/top/artists     ?period=&limit=
  GET /api/users/{user}/top/tracks      ?period=&limit=
  GET /api/users/{user}/artists/{name}
  GET /api/users/{user}/artists/{name}/albums/{album}
  GET /api/users/{user}/recommendations
  GET /api/search/artists               ?q=&limit=
  GET /api/earnings                     ?plays=1&plays=2

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: withDeps(runServe),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string, d *deps) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = d.cfg.Serve.Addr
	}

	recentCfg, err := d.recentConfig("")
	if err != nil {
		return err
	}
	svc, err := d.stats()
	if err != nil {
		return err
	}
	source, err := d.source()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if n, err := d.store.Cleanup(ctx, snapshotMaxAge); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to clean up old snapshots")
	} else if n > 0 {
		d.logger.Info().Int64("deleted", n).Msg("Cleaned up old snapshots")
	}

	server := api.NewServer(api.Config{
		Addr:     addr,
		Recent:   recentCfg,
		PageSize: d.cfg.Recent.PageSize,
	}, svc, source, d.store, d.logger)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", server.Addr())
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
