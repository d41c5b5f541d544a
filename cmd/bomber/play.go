package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
)

var flagName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a local game session with a menu, a difficulty selector and
the high score table. Finished games are saved to the score database.

Controls:
  WASD/Arrows - Move
  B/Space     - Place a bomb
  X           - Detonate remote bombs (with the Detonator upgrade)
  R           - Restart (after game over)
  Esc         - Back to menu
  Ctrl+S      - Save a screenshot to ~/.bomber/screenshots
  Q/Ctrl+C    - Quit

Examples:
  bomber play
  bomber play --difficulty hard --name alice
  bomber play --config ./my-levels.yaml --seed 42`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name (default: $USER)")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

func playerName() string {
	if flagName != "" {
		return flagName
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "player"
}

func runPlay(_ *cobra.Command, _ []string) {
	env := loadEnv()
	gc, preset := gameSettings()

	store := openStore(env)
	defer store.Close()

	settings := tui.Settings{
		Game:       gc,
		Difficulty: preset,
		Seed:       flagSeed,
	}
	width, height := terminalSize()
	if err := tui.Run(settings, store, playerName(), width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}
