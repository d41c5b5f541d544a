// bomber is a server-authoritative Bomberman game for the terminal.
//
// Usage:
//
//	bomber serve             - Run the WebSocket game server
//	bomber ssh               - Serve local-style games over SSH
//	bomber play              - Play a game in this terminal
//	bomber join <name>       - Play on a remote server
//	bomber watch             - Watch the game running on a server
//	bomber scores            - Show high scores
//	bomber levels            - Print the level table
//	bomber schema            - Print the JSON schema of the wire messages
//
// Global flags:
//
//	--tick-rate <n>     - Override the tick rate (frames per second)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.bomber/scores.db)
//	--config <path>     - Use a custom game config YAML
//	--difficulty <name> - Difficulty preset: easy, normal, hard
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

var (
	// Global flags
	flagTickRate   int
	flagSeed       int64
	flagDBPath     string
	flagDBType     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bomber",
	Short: "Bomber - a server-authoritative Bomberman for the terminal",
	Long: `Bomber runs a Bomberman game on a fixed-rate server loop. Players
join a queue over WebSocket and play one at a time while viewers watch.
The same engine also runs locally and over SSH.

Available commands:
  serve    - Run the WebSocket game server
  ssh      - Serve games over SSH
  play     - Play in this terminal
  join     - Play on a remote server
  watch    - Watch a remote server
  scores   - View high scores
  levels   - Print the level table
  schema   - Print the wire message schema

Examples:
  bomber serve --addr :8000
  bomber play --difficulty hard
  bomber join alice --url ws://localhost:8000
  bomber scores --player alice`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", 0, "Tick rate in frames per second (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default: $BOMBER_DB or ~/.bomber/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagDBType, "db-type", "", "Database type: sqlite or postgres (default: $BOMBER_DB_TYPE)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: $BOMBER_LOG_LEVEL)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(schemaCmd)
}

// loadEnv reads .env and the BOMBER_* variables, letting flags win.
func loadEnv() config.ServerEnv {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading .env: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		env.DBPath = flagDBPath
	}
	if flagDBType != "" {
		env.DBType = flagDBType
	}
	if flagLogLevel != "" {
		env.LogLevel = flagLogLevel
	}
	return env
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bomber",
	})
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// gameSettings loads the game config and applies the global flags.
func gameSettings() (config.GameConfig, config.DifficultyPreset) {
	gc, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagTickRate > 0 {
		gc.Gameplay.TickRate = flagTickRate
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return gc, preset
}

// openStore opens the score database. With postgres the DSN comes from
// DATABASE_URL.
func openStore(env config.ServerEnv) *storage.Store {
	dsn := env.DBPath
	if strings.HasPrefix(strings.ToLower(env.DBType), "postgres") {
		dsn = env.DatabaseURL
	}
	store, err := storage.OpenStore(env.DBType, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	return store
}
