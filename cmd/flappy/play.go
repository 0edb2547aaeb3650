package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/reward"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagRewardDelay time.Duration
	flagNoRewards   bool
	flagLogFile     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space/Up/W  - Flap (the first flap starts the run)
  R/Enter     - Restart after game over
  C           - Watch a reward to continue with your score kept
  M           - Watch a reward for bonus coins
  Tab         - High scores (when not flying)
  ?           - More keys
  Q/Ctrl+C    - Quit

Rewards are simulated: a request is granted after --reward-delay.
Use --no-rewards to play as if no reward were ever available.

Difficulty options:
  easy   - Slower speed ramp, wider gaps
  normal - Default tuning
  hard   - Faster from the start, narrower gaps
  fixed  - No speed ramp

Examples:
  flappy play
  flappy play --difficulty easy
  flappy play --player ana
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&flagRewardDelay, "reward-delay", 2*time.Second, "How long a simulated reward takes")
	playCmd.Flags().BoolVar(&flagNoRewards, "no-rewards", false, "Report rewards as unavailable")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the game screen hides stderr)")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Config problems are reported before the alt screen takes over.
	cfg := loadConfig(newLogger(os.Stderr, "flappy"))

	logOut := io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			defer f.Close()
			logOut = f
		}
	}
	logger := newLogger(logOut, "flappy")

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	var provider reward.Provider = reward.Simulated{Delay: flagRewardDelay}
	if flagNoRewards {
		provider = reward.None{}
	}

	var screenshots string
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		screenshots = filepath.Join(home, ".flappy", "screenshots")
	}

	runErr := tui.Run(cfg, tui.Options{
		Store:         store,
		Player:        flagPlayer,
		Provider:      provider,
		Seed:          flagSeed,
		FPS:           flagFPS,
		Width:         width,
		Height:        height,
		ScreenshotDir: screenshots,
		Logger:        logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
