package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/vovakirdan/greensort/internal/config"
	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/storage"
)

// newLogger creates a stderr logger at the --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig loads sorting.yaml and applies the --difficulty preset.
func loadConfig() (config.SortingConfig, error) {
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return config.SortingConfig{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openLedger opens the database and builds a ledger over it with the
// configured badges, challenges and rewards. The caller closes the store.
func openLedger(cfg config.SortingConfig, logger *log.Logger) (*storage.Store, *points.Ledger, error) {
	badges, err := cfg.BadgeDefinitions()
	if err != nil {
		return nil, nil, err
	}
	challenges, err := cfg.ChallengeDefinitions()
	if err != nil {
		return nil, nil, err
	}
	rewards, err := cfg.RewardDefinitions()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, nil, err
	}

	ledger := points.NewLedger(store,
		points.WithBadges(badges),
		points.WithChallenges(challenges),
		points.WithRewards(rewards),
		points.WithLogger(logger),
	)
	return store, ledger, nil
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
