/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	flagUser     string
	flagLogLevel string
	flagLogFile  string
	flagJSON     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libi",
	Short: "Last.fm listening stats with illustrative artist earnings",
	Long: `libi shows a Last.fm listener's recent plays, top artists and tracks,
and an illustrative estimate of what their listening earned each artist
at a flat per-stream rate of $0.004.

Play counts are fetched from Last.fm and enriched in the background;
artist details are supplemented from MusicBrainz. Every listing links
out to streaming and purchase storefronts.

Set the Last.fm API key with LASTFM_API_KEY (or lastfm.api_key in
~/.config/libi/config.yaml) and pick a user with 'libi user set <name>'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "Last.fm username (default: the saved user)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of a table")
}
