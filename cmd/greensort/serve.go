package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Green Sort SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection plays its own rounds as the SSH user name.
Green Points are stored per-server (all users share the same scoreboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.greensort/host_key

Examples:
  greensort serve                           # Listen on :23234 with auto-generated key
  greensort serve --ssh :2222               # Listen on port 2222
  greensort serve --host-key ./my_host_key  # Use specific host key
  greensort serve --db ./greensort.db       # Use specific database

Users can connect with:
  ssh <name>@localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, err := newLogger("greensort")
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		fail("%v", err)
	}

	store, ledger, err := openLedger(cfg, logger)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Catalog:     catalog,
		Rules:       cfg.SortingRules(),
	}, store, ledger)
	if err != nil {
		store.Close()
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting Green Sort SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh <name>@localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		store.Close()
		fail("server: %v", err)
	}
}
