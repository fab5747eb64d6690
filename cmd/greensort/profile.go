package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/points"
)

var (
	flagHistory int
	flagReset   bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <player>",
	Short: "Show a player's Green Points profile",
	Long: `Display a player's Green Points balance, level, round stats, badges,
recent rounds and recent activity. --reset deletes all of the player's rounds, points
and badges.

Examples:
  greensort profile ana
  greensort profile ana --history 20
  greensort profile ana --reset`,
	Args: cobra.ExactArgs(1),
	Run:  runProfile,
}

func init() {
	profileCmd.Flags().IntVar(&flagHistory, "history", 5, "Recent rounds and activities to show")
	profileCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete the player's rounds, points and badges")
}

func runProfile(_ *cobra.Command, args []string) {
	logger, err := newLogger("greensort")
	if err != nil {
		fail("%v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	store, ledger, err := openLedger(cfg, logger)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if flagReset {
		if err := store.ClearPlayer(ctx, args[0]); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Profile of %s has been reset.\n", args[0])
		return
	}

	p, err := ledger.Profile(ctx, args[0])
	if err != nil {
		store.Close()
		fail("%v", err)
	}
	activities, err := store.Activities(ctx, p.Player, flagHistory)
	if err != nil {
		store.Close()
		fail("retrieving activity: %v", err)
	}
	rounds, err := store.PlayerRounds(ctx, p.Player, flagHistory)
	if err != nil {
		store.Close()
		fail("retrieving rounds: %v", err)
	}

	fmt.Printf("Player: %s\n", p.Player)
	fmt.Printf("Green Points: %d\n", p.Balance)
	if p.Level < points.MaxLevel {
		fmt.Printf("Level: %d (next level at %d points)\n", p.Level, p.NextLevelAt)
	} else {
		fmt.Printf("Level: %d (max)\n", p.Level)
	}
	fmt.Printf("Rounds: %d, best score %d, best streak %d, items sorted %d\n",
		p.Stats.Rounds, p.Stats.BestScore, p.Stats.BestStreak, p.Stats.Sorted)
	if p.Certificate {
		fmt.Println("Certificate: Eco Champion")
	} else {
		fmt.Printf("Certificate: %d more points to Eco Champion\n", points.CertificateThreshold-p.Balance)
	}

	fmt.Println()
	if len(p.Badges) == 0 {
		fmt.Println("No badges yet.")
	} else {
		fmt.Println("Badges:")
		for _, b := range p.Badges {
			fmt.Printf("  - %s", b.Name)
			if b.Description != "" {
				fmt.Printf(": %s", b.Description)
			}
			fmt.Println()
		}
	}

	if len(rounds) > 0 {
		fmt.Println()
		fmt.Println("Recent rounds:")
		for _, r := range rounds {
			fmt.Printf("  %s  %5d  streak %-3d %d/%d correct\n", r.CreatedAt.Format("2006-01-02 15:04"),
				r.FinalScore, r.MaxStreak, r.Correct, r.Correct+r.Incorrect)
		}
	}

	if len(activities) > 0 {
		fmt.Println()
		fmt.Println("Recent activity:")
		for _, a := range activities {
			fmt.Printf("  %s  %+5d  %-14s %s\n", a.CreatedAt.Format("2006-01-02 15:04"), a.Points, a.Source, a.Note)
		}
	}
}
