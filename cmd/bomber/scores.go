package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

var (
	flagPlayer      string
	flagLimit       int
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best finished games, either of everyone or of one player.

Examples:
  bomber scores
  bomber scores --player alice
  bomber scores --limit 25
  bomber scores -i                # interactive table`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show games of this player")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in an interactive table")
}

func runScores(_ *cobra.Command, _ []string) {
	env := loadEnv()
	store := openStore(env)
	defer store.Close()

	if flagInteractive {
		width, height := terminalSize()
		if err := tui.RunScoreboard(store, flagPlayer, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	var (
		scores []storage.ScoreEntry
		err    error
	)
	if flagPlayer != "" {
		scores, err = store.PlayerScores(flagPlayer, flagLimit)
	} else {
		scores, err = store.TopScores(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	if flagPlayer != "" {
		fmt.Printf("High Scores - %s\n", flagPlayer)
	} else {
		fmt.Println("High Scores")
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bomber play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-10s  %-14s  %s\n", "Rank", "Player", "Level", "Score", "Outcome", "Date")
	fmt.Printf("  %-4s  %-16s  %-5s  %-10s  %-14s  %s\n", "----", "------", "-----", "-----", "-------", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-5d  %-10d  %-14s  %s\n",
			i+1, entry.Player, entry.Level, entry.Score, entry.Outcome, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagPlayer != "" {
		if stats, err := store.PlayerStats(flagPlayer); err == nil {
			fmt.Println()
			fmt.Printf("Games: %d  Best: %d  Best level: %d  Average: %.0f\n",
				stats.GamesCount, stats.HighScore, stats.BestLevel, stats.AvgScore)
		}
	}
}
