package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/greensort/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play sorting rounds",
	Long: `Start the sorting game in the terminal.

Each round lasts 60 seconds (90 on easy, 45 on hard). Pick an item and
drop it into a bin. Correct drops earn 10 points; from the third correct
drop in a row every drop earns 5 more. A wrong drop resets the streak.
Your final score is credited to your Green Points.

Controls:
  Up/Down, K/J   - Select item
  1/W            - Wet waste bin
  2/D            - Dry waste bin
  3/H            - Hazardous bin
  4/E            - E-waste bin
  Enter/S        - Start round
  R              - Play again
  Tab            - Scoreboard
  Q/Ctrl+C       - Quit (forfeits a running round)

Examples:
  greensort play
  greensort play --player ana
  greensort play --difficulty easy
  greensort play --config ./my-sorting.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name (prompted for if not set)")
}

func runPlay(_ *cobra.Command, _ []string) {
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

	player, err := resolvePlayer()
	if err != nil {
		fail("%v", err)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, ledger, err := openLedger(cfg, logger)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	err = tui.Run(tui.Config{
		Catalog: catalog,
		Rules:   cfg.SortingRules(),
		Ledger:  ledger,
		Rounds:  store,
		Player:  player,
		Seed:    flagSeed,
		Logger:  logger,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		store.Close()
		fail("%v", err)
	}
}

// resolvePlayer returns --player, asking for a name on a terminal.
func resolvePlayer() (string, error) {
	if name := strings.TrimSpace(flagPlayer); name != "" {
		return name, nil
	}

	fallback := os.Getenv("USER")
	if fallback == "" {
		fallback = "player"
	}
	if !isInteractive() {
		return fallback, nil
	}

	name := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Player name").
				Description("Your Green Points are saved under this name.").
				Placeholder(fallback).
				Value(&name).
				Validate(validatePlayerName),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("aborted")
		}
		return "", fmt.Errorf("name prompt: %w", err)
	}

	if name = strings.TrimSpace(name); name == "" {
		return fallback, nil
	}
	return name, nil
}

// validatePlayerName allows blank input (meaning the default) and
// names up to 32 characters.
func validatePlayerName(s string) error {
	if len([]rune(strings.TrimSpace(s))) > 32 {
		return errors.New("name must be at most 32 characters")
	}
	return nil
}
