package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
)

var flagURL string

var joinCmd = &cobra.Command{
	Use:   "join <name>",
	Short: "Play on a remote server",
	Long: `Connect to a game server as a player. You wait in the queue until
the current game ends, then your keys drive the avatar. Every other
player's game is shown while you wait.

Examples:
  bomber join alice
  bomber join alice --url ws://games.example.com:8000`,
	Args: cobra.ExactArgs(1),
	Run:  runJoin,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a remote server",
	Long: `Connect to a game server as a viewer and follow every game.

Examples:
  bomber watch
  bomber watch --url ws://games.example.com:8000`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	for _, c := range []*cobra.Command{joinCmd, watchCmd} {
		c.Flags().StringVar(&flagURL, "url", "ws://localhost:8000", "Game server URL")
	}
}

func runJoin(_ *cobra.Command, args []string) {
	runRemote(args[0])
}

func runWatch(_ *cobra.Command, _ []string) {
	runRemote("")
}

func runRemote(name string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	width, height := terminalSize()
	if err := tui.RunRemote(ctx, flagURL, name, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
