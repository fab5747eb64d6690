package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/sorting"
)

var flagDictionary bool

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List sorting items by bin",
	Long: `List the items drawn into sorting rounds, grouped by bin.
With --dictionary, list every item known to 'greensort lookup'.

Examples:
  greensort items
  greensort items --dictionary`,
	Args: cobra.NoArgs,
	Run:  runItems,
}

func init() {
	itemsCmd.Flags().BoolVar(&flagDictionary, "dictionary", false, "List the lookup dictionary instead")
}

func runItems(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	var catalog *sorting.Catalog
	if flagDictionary {
		catalog, err = cfg.DictionaryCatalog()
	} else {
		catalog, err = cfg.Catalog()
	}
	if err != nil {
		fail("%v", err)
	}

	for i, cat := range sorting.Categories() {
		items := catalog.ByCategory(cat)
		if len(items) == 0 {
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (key %d)\n", cat.Label(), i+1)
		for _, it := range items {
			fmt.Printf("  %s %-18s %3d pts\n", it.Icon, it.Name, it.Points)
		}
	}
}
