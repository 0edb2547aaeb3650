// flappy is a terminal flappy game with rewarded continues.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy serve             - Start SSH server for remote play
//	flappy scores [player]   - Show high scores
//	flappy simulate          - Run a headless, deterministic game
//	flappy config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>         - Redraw rate (default: 60)
//	--seed <value>       - RNG seed for reproducible gate placement
//	--db <path>          - Database path (default: ~/.flappy/scores.db)
//	--config <path>      - Custom config YAML
//	--difficulty <name>  - easy, normal, hard or fixed
//	--set name=value     - Override a numeric constant
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagSet        map[string]string
	flagLogLevel   string
	flagPlayer     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - tap to fly through the gates in your terminal",
	Long: `Flappy is a terminal flappy game. Flap through gaps between gates,
score a point for every gate you pass, and watch a (simulated) reward to
continue a run with your score kept.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  scores    - View high scores
  simulate  - Run a headless game and print the result
  config    - Print the effective configuration

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --set gravity=0.4 --set gap_size=300
  flappy serve --ssh :2222
  flappy simulate --seed 7 --flap-every 18`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringToStringVar(&flagSet, "set", nil, "Override a numeric constant (name=value), see 'flappy config --overrides'")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player profile name (default: local)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger creates the CLI logger at the level chosen by --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig resolves the game configuration from --config, the difficulty
// preset and --set overrides. Problems are logged and defaults are used, so
// a bad file never keeps the game from starting.
func loadConfig(logger *log.Logger) config.Config {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("could not load config, using defaults", "path", flagConfig, "error", err)
	}
	for _, w := range loaded.Warnings {
		logger.Warn("config", "warning", w)
	}
	logger.Debug("config loaded", "source", loaded.Source, "path", loaded.Path)

	cfg := loaded.Config
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		logger.Warn("ignoring difficulty", "error", err)
	}
	config.ApplyPreset(&cfg, preset)

	warnings := cfg.ApplyOverrides(flagSet)
	warnings = append(warnings, cfg.Normalize()...)
	for _, w := range warnings {
		logger.Warn("config", "warning", w)
	}
	return cfg
}
