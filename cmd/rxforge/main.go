// Command rxforge synthesizes regular expressions from positive and
// negative example strings using simulated annealing.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/anneal"
)

var (
	configPath string
	dbPath     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "rxforge",
	Short: "Regex synthesis from examples",
	Long: `rxforge searches for a regular expression that matches every
positive example and rejects every negative example, using simulated
annealing over a pattern tree. Runs are deterministic for a given
example set, configuration, and seed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to the run-history database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of text")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rxforge/history.db"
	}
	return filepath.Join(home, ".rxforge", "history.db")
}

// loadRunConfig resolves the run configuration: defaults, then the
// config file when one was given.
func loadRunConfig() (anneal.Config, error) {
	if configPath == "" {
		return anneal.DefaultConfig(), nil
	}
	cfg, err := anneal.LoadConfig(configPath)
	if err != nil {
		return anneal.Config{}, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	return cfg, nil
}
