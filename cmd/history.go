// =============================================================================
// Quotation Generator - History Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen history list        - Show the saved quotations, newest first
//   quotegen history load <n>    - Make saved quotation n the working document
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/history"
	"github.com/ginjaninja78/quotegen/internal/quotation"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the saved quotations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved quotations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := app.history.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved quotations.")
			return nil
		}
		for i, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, history.Label(e))
		}
		return nil
	},
}

var historyLoadCmd = &cobra.Command{
	Use:   "load <n>",
	Short: "Replace the working document with a saved quotation",
	Long: `Replace the working document with saved quotation n, as numbered by
'history list'. Unsaved changes to the working document are discarded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		entry, err := app.history.Load(cmd.Context(), i)
		if err != nil {
			return err
		}

		ed, err := quotation.NewEditor(entry)
		if err != nil {
			return fmt.Errorf("failed to load history entry %d: %w", i+1, err)
		}
		if err := app.commit(ed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n", history.Label(entry))
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyLoadCmd)
	rootCmd.AddCommand(historyCmd)
}
