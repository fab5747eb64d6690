package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagRedeem string

var rewardsCmd = &cobra.Command{
	Use:   "rewards <player>",
	Short: "List rewards and spend Green Points",
	Long: `List the reward catalog against the player's balance, or spend
points on a reward with --redeem. Redeeming lowers the balance, and the
level follows it; badges already earned are kept.

Examples:
  greensort rewards ana
  greensort rewards ana --redeem cloth-bags`,
	Args: cobra.ExactArgs(1),
	Run:  runRewards,
}

func init() {
	rewardsCmd.Flags().StringVar(&flagRedeem, "redeem", "", "ID of a reward to redeem")
}

func runRewards(_ *cobra.Command, args []string) {
	player := args[0]

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
	if flagRedeem != "" {
		r, balance, err := ledger.Redeem(ctx, player, flagRedeem)
		if err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Redeemed %s for %d Green Points. %s has %d left.\n", r.Name, r.Cost, player, balance)
		return
	}

	p, err := ledger.Profile(ctx, player)
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	fmt.Printf("Rewards for %s (%d Green Points)\n\n", player, p.Balance)
	fmt.Printf("  %-14s  %-26s  %-6s  %s\n", "ID", "Name", "Cost", "Status")
	fmt.Printf("  %-14s  %-26s  %-6s  %s\n", "--", "----", "----", "------")
	for _, r := range ledger.Rewards() {
		status := "redeemable"
		switch {
		case !r.Available:
			status = "coming soon"
		case p.Balance < r.Cost:
			status = fmt.Sprintf("need %d more", r.Cost-p.Balance)
		}
		fmt.Printf("  %-14s  %-26s  %-6d  %s\n", r.ID, r.Name, r.Cost, status)
	}
}
