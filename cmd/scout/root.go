package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

var (
	envFile string
	verbose bool
	noColor bool
	logger  = slog.Default()

	// newUpstream builds the YouTube client from the loaded configuration.
	newUpstream = func(c *engine.Config) scout.Upstream {
		return sources.NewClientFromConfig(c)
	}
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Find YouTube creators by keyword under a quota budget",
	Long: `scout discovers YouTube channels by keyword, drops the ones outside your
subscriber and view range, and ranks the rest by average views over their
recent uploads. Every run spends from a quota budget and stops cleanly when
the budget runs out.

Example usage:
  scout search "unboxing, gadget review"       # Default thresholds
  scout search asmr --min-subs 5000 --out a.csv
  scout search asmr --exclude-csv known.csv --roster --save
  scout resolve @mkbhd                          # Handle to channel ID
  scout average @mkbhd --window-days 14
  scout roster list --status new`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored status lines")
}

// initConfig loads the dotenv file, reads the environment and initializes
// the engine. A missing dotenv file is not an error.
func initConfig(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	c := engine.ConfigFromEnv()
	c.Redis = engine.OpenRedis(cmd.Context(), c.RedisURL)
	engine.Init(c)

	logger.Debug("configuration loaded",
		slog.Int("quota_budget", c.QuotaBudget),
		slog.Bool("api_key", c.YouTubeAPIKey != ""),
		slog.Bool("redis", c.Redis != nil),
	)
	return nil
}

// newService builds a scout service over the configured upstream.
func newService() *scout.Service {
	return scout.NewService(newUpstream(engine.Cfg))
}

// requireAPIKey fails early when a command will reach the upstream.
func requireAPIKey() error {
	if engine.Cfg.YouTubeAPIKey == "" {
		return errors.New("YOUTUBE_API_KEY is not set")
	}
	return nil
}

// openRoster opens the roster at the configured path.
func openRoster() (*scout.Roster, error) {
	return scout.OpenRoster(engine.Cfg.RosterPath)
}
