package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/repl"
	"github.com/rxforge/rxforge/internal/storage"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell for iterative pattern synthesis.

Add examples with 'pos' and 'neg', run the search with 'synth', adjust
the profile or seed, and rerun until the pattern fits. 'save' persists
the last result to run history.

Type 'help' in the shell for available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}

		store, err := storage.NewSQLite(dbPath)
		if err != nil {
			// The shell still works without history; 'save' reports it.
			fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		r, err := repl.New(&repl.Config{Store: storeOrNil(store), Run: cfg})
		if err != nil {
			return fmt.Errorf("failed to create shell: %w", err)
		}
		return r.Run(context.Background())
	},
}

// storeOrNil keeps a typed-nil *SQLiteStore out of the Store interface.
func storeOrNil(s *storage.SQLiteStore) storage.Store {
	if s == nil {
		return nil
	}
	return s
}

func init() {
	rootCmd.AddCommand(replCmd)
}
