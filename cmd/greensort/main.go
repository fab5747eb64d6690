// greensort is a terminal waste-sorting game that teaches which bin
// household waste belongs in and rewards players with Green Points.
//
// Usage:
//
//	greensort play             - Play sorting rounds in the terminal
//	greensort serve            - Start SSH server for remote play
//	greensort simulate         - Let bots play rounds against the clock
//	greensort scores           - Show the best rounds and top players
//	greensort profile <name>   - Show a player's points, level and badges
//	greensort challenges <name> - List or complete eco challenges
//	greensort rewards <name>   - List rewards or spend Green Points
//	greensort lookup <item>    - Look up which bin an item belongs in
//	greensort items            - List the sorting items
//	greensort config dump      - Print the effective configuration
//
// Global flags:
//
//	--db <path>          - Set database path (default: ~/.greensort/greensort.db)
//	--seed <value>       - Set RNG seed for reproducible item pools
//	--config <path>      - Use a custom sorting.yaml
//	--difficulty <name>  - easy, normal or hard
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
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
	Use:   "greensort",
	Short: "Green Sort - learn to sort waste in your terminal",
	Long: `Green Sort is a timed waste-sorting game. Drop each item into the
right bin (wet, dry, hazardous or e-waste) before the clock runs out,
build streaks for bonus points and collect Green Points, levels and badges.

Available commands:
  play      - Play sorting rounds
  serve     - Start SSH server for remote play
  simulate  - Let bots play rounds
  scores    - View the scoreboard
  profile   - View a player's Green Points profile
  challenges - List and complete eco challenges
  rewards   - Spend Green Points on rewards
  lookup    - Find the right bin for an item
  items     - List sorting items
  config    - Inspect configuration

Examples:
  greensort play
  greensort play --player ana --difficulty hard
  greensort serve --ssh :2222
  greensort simulate --bots 3 --speed 20
  greensort lookup "coffee grounds" --player ana`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.greensort/greensort.db", "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom sorting.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(rewardsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(configCmd)
}
