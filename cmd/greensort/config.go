package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration in effect after the search order
(--config, ~/.greensort/configs/sorting.yaml, ./configs/sorting.yaml,
built-in defaults) and the --difficulty preset are applied.

Save the output to ~/.greensort/configs/sorting.yaml to customize it.

Examples:
  greensort config dump
  greensort config dump --difficulty hard > ~/.greensort/configs/sorting.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfigDump,
}

func init() {
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fail("encoding config: %v", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fail("writing config: %v", err)
	}
}
