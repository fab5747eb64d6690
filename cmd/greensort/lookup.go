package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/points"
)

var flagLookupPlayer string

var lookupCmd = &cobra.Command{
	Use:   "lookup <item>",
	Short: "Find the right bin for an item",
	Long: `Look up an item in the waste dictionary and show its bin, a disposal
tip and any safety warning. Partial names match ("coffee" finds
Coffee Grounds). With --player, the item's points are credited.

Examples:
  greensort lookup battery
  greensort lookup "egg shells" --player ana`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&flagLookupPlayer, "player", "", "Credit the item's points to this player")
}

func runLookup(_ *cobra.Command, args []string) {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	dict, err := cfg.DictionaryCatalog()
	if err != nil {
		fail("%v", err)
	}

	item, ok := dict.Lookup(query)
	if !ok {
		fail("no item matches %q; run 'greensort items --dictionary' to see known items", query)
	}

	fmt.Printf("%s %s\n", item.Icon, item.Name)
	fmt.Printf("Bin: %s\n", item.Category.Label())
	if item.Tip != "" {
		fmt.Printf("Tip: %s\n", item.Tip)
	}
	if item.Warning != "" {
		fmt.Printf("Warning: %s\n", item.Warning)
	}

	if flagLookupPlayer == "" || item.Points <= 0 {
		return
	}

	logger, err := newLogger("greensort")
	if err != nil {
		fail("%v", err)
	}
	store, ledger, err := openLedger(cfg, logger)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	balance, err := ledger.Credit(ctx, flagLookupPlayer, points.SourceWasteLookup, item.Points, "identified "+item.Name)
	if err != nil {
		store.Close()
		fail("%v", err)
	}
	if _, err := ledger.CheckBadges(ctx, flagLookupPlayer); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Printf("\n+%d Green Points for %s (balance %d, level %d)\n",
		item.Points, flagLookupPlayer, balance, points.Level(balance))
}
