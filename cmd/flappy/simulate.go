package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/game"
	"github.com/vovakirdan/tui-flappy/internal/reward"
)

var (
	flagSimTicks     int
	flagSimFlapEvery int
	flagSimContinues int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless game and print the result",
	Long: `Run the simulation without a terminal UI on a manual clock.

The run starts with a flap and then flaps every --flap-every ticks.
When it ends, up to --continues rewarded continuations are granted.
The same seed, schedule and config always give the same result.

Examples:
  flappy simulate
  flappy simulate --seed 7 --flap-every 18
  flappy simulate --seed 7 --flap-every 18 --continues 2 --fps 30`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Maximum number of ticks to run")
	simulateCmd.Flags().IntVar(&flagSimFlapEvery, "flap-every", 0, "Flap every N ticks (0 = never after the first flap)")
	simulateCmd.Flags().IntVar(&flagSimContinues, "continues", 0, "Rewarded continuations to grant")
}

// simOptions controls a headless run.
type simOptions struct {
	Seed      int64
	Ticks     int
	FlapEvery int
	Continues int
	FPS       int // Host callback rate; 0 = nominal frame rate
}

// simResult summarizes a headless run.
type simResult struct {
	Score     int
	Best      int
	Coins     int
	Continues int
	Ticks     int
	State     game.State
	Reason    game.EndReason
}

// simulate drives a session from a stepper on a manual clock.
func simulate(cfg config.Config, opts simOptions, logger *log.Logger) simResult {
	session := game.NewSession(cfg,
		game.WithRandom(game.NewRandom(opts.Seed)),
		game.WithLogger(logger),
	)

	clk := clock.NewManual(time.Unix(0, 0))
	stepper := clock.NewStepper(session.Config().Clock)
	interval := stepper.FrameDuration()
	if opts.FPS > 0 {
		interval = time.Second / time.Duration(opts.FPS)
	}
	session.Flap()
	stepper.Reset(clk.Now())

	in := core.NewInputFrame()
	ticks, continues := 0, 0
	for ticks < opts.Ticks {
		stepper.Frame(clk.Advance(interval), func(dt time.Duration) {
			if session.State() != game.StateRunning || ticks >= opts.Ticks {
				return
			}
			ticks++
			if opts.FlapEvery > 0 && ticks%opts.FlapEvery == 0 {
				in.Set(core.ActionFlap)
			}
			session.Step(in, dt)
			in.Clear()
		})

		if session.State() != game.StateEnded {
			continue
		}
		if continues >= opts.Continues {
			break
		}
		t, err := session.BeginContinue()
		if err != nil {
			logger.Debug("continuation refused", "error", err)
			break
		}
		session.CompleteReward(t, reward.Granted)
		continues++
		stepper.Reset(clk.Now())
	}

	snap := session.Snapshot()
	return simResult{
		Score:     snap.Score,
		Best:      snap.Best,
		Coins:     snap.Coins,
		Continues: snap.Continues,
		Ticks:     ticks,
		State:     snap.State,
		Reason:    snap.EndReason,
	}
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "flappy-sim")
	cfg := loadConfig(logger)

	res := simulate(cfg, simOptions{
		Seed:      flagSeed,
		Ticks:     flagSimTicks,
		FlapEvery: flagSimFlapEvery,
		Continues: flagSimContinues,
		FPS:       flagFPS,
	}, logger)

	fmt.Printf("Score: %d  Best: %d  Continues: %d  Coins: %d\n", res.Score, res.Best, res.Continues, res.Coins)
	if res.State == game.StateEnded {
		fmt.Printf("Ended by %s after %d ticks\n", res.Reason, res.Ticks)
	} else {
		fmt.Printf("Still flying after %d ticks\n", res.Ticks)
	}
}
