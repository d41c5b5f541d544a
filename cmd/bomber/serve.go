package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/grading"
	"github.com/vovakirdan/tui-bomber/internal/server"
)

var (
	flagAddr       string
	flagGradingURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket game server",
	Long: `Run the authoritative game server.

Players connect to /player, send {"cmd":"join","name":"..."} and wait in
the queue until their turn. Viewers connect to /viewer and see every game.
Finished games are stored in the score database and, when a grading URL
is set, posted to it.

Settings are read from flags, then from the environment (.env is loaded
if present):
  BOMBER_ADDR          listen address (default :8000)
  BOMBER_DB_TYPE       sqlite or postgres
  BOMBER_DB            sqlite database path
  DATABASE_URL         postgres connection string
  BOMBER_GRADING_URL   grading endpoint
  BOMBER_LOG_LEVEL     debug, info, warn, error

HTTP API:
  GET /api/v1/health
  GET /api/v1/status
  GET /api/v1/highscores?limit=10
  GET /api/v1/highscores/{player}

Examples:
  bomber serve
  bomber serve --addr :9000 --tick-rate 20
  bomber serve --db-type postgres --grading-url http://grader/results`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: $BOMBER_ADDR or :8000)")
	serveCmd.Flags().StringVar(&flagGradingURL, "grading-url", "", "Grading endpoint for finished games (default: $BOMBER_GRADING_URL)")
}

func runServe(_ *cobra.Command, _ []string) {
	env := loadEnv()
	if flagAddr != "" {
		env.Addr = flagAddr
	}
	if flagGradingURL != "" {
		env.GradingURL = flagGradingURL
	}
	logger := newLogger(env.LogLevel)

	gc, preset := gameSettings()
	config.ApplyPreset(&gc, preset)
	engineCfg, err := gc.EngineConfig(flagSeed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in game config: %v\n", err)
		os.Exit(1)
	}

	store := openStore(env)
	defer store.Close()

	var grader *grading.Client
	if env.GradingURL != "" {
		grader = grading.New(env.GradingURL)
	}

	srv, err := server.New(server.Config{
		Addr:    env.Addr,
		Engine:  engineCfg,
		Store:   store,
		Grading: grader,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting game server",
		"addr", env.Addr,
		"db", env.DBType,
		"fps", engineCfg.TickRate,
		"difficulty", preset,
	)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", "err", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
