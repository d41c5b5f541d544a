package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve games over SSH",
	Long: `Start an SSH server where every connection gets its own game session
with a menu, a difficulty selector and the shared high score table.
The SSH user name is the player name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bomber/host_key

Examples:
  bomber ssh                           # Listen on :23234
  bomber ssh --ssh :2222               # Listen on port 2222
  bomber ssh --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh alice@localhost -p 23234`,
	Run: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runSSH(_ *cobra.Command, _ []string) {
	env := loadEnv()
	logger := newLogger(env.LogLevel)
	gc, preset := gameSettings()

	store := openStore(env)
	defer store.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = logger
	cfg.Settings = tui.Settings{
		Game:       gc,
		Difficulty: preset,
		Seed:       flagSeed,
	}

	server, err := tui.NewSSHServer(cfg, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connect with: ssh <name>@localhost -p %s\n", portOf(server.Addr()))
	if err := server.Run(ctx); err != nil {
		logger.Error("ssh server stopped", "err", err)
		store.Close()
		os.Exit(1)
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
