package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

var (
	flagConfigDefaults  bool
	flagConfigOverrides bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the game would run with, as YAML, after
--config, --difficulty and --set are applied. Copy the output to
~/.flappy/flappy.yaml to make it the default.

Examples:
  flappy config
  flappy config --difficulty hard --set gravity=0.4
  flappy config --defaults > ~/.flappy/flappy.yaml
  flappy config --overrides`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults instead")
	configCmd.Flags().BoolVar(&flagConfigOverrides, "overrides", false, "List the constant names accepted by --set")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigOverrides {
		fmt.Println("Constants accepted by --set:")
		fmt.Println()
		fmt.Println("  " + strings.Join(config.OverrideNames(), "\n  "))
		return
	}

	if flagConfigDefaults {
		os.Stdout.Write(config.DefaultYAML()) //nolint:errcheck // Best-effort write to stdout
		return
	}

	cfg := loadConfig(newLogger(os.Stderr, "flappy"))
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data) //nolint:errcheck // Best-effort write to stdout
}
