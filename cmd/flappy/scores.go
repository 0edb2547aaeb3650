package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTable bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [player]",
	Short: "Show high scores",
	Long: `Display the top runs, across all players or for one player.

Examples:
  flappy scores
  flappy scores ana
  flappy scores --table
  flappy scores ana --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresTable, "table", false, "Browse scores in an interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the player's runs and best score (coins are kept)")
}

func runScores(_ *cobra.Command, args []string) {
	player := ""
	if len(args) == 1 {
		player = args[0]
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if flagScoresClear {
		if player == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a player name")
			os.Exit(1)
		}
		if err := store.ClearScores(ctx, player); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores of %s\n", player)
		return
	}

	if flagScoresTable {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	scores, err := store.TopScores(ctx, player, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if player == "" {
		fmt.Println("High Scores")
	} else {
		fmt.Printf("High Scores - %s\n", player)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-6s  %-9s  %-8s  %s\n", "Rank", "Player", "Score", "Continues", "Ended by", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %-9s  %-8s  %s\n", "----", "------", "-----", "---------", "--------", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-6d  %-9d  %-8s  %s\n",
			i+1, entry.Player, entry.Score, entry.Continues, entry.EndReason, dateStr)
	}

	if player == "" {
		return
	}
	stats, err := store.PlayerStats(ctx, player)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.1f  Coins: %d\n",
			stats.HighScore, stats.RunsCount, stats.AvgScore, stats.Coins)
	}
}
