// =============================================================================
// Quotation Generator - Export / Import Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen export json [--all]   - Data file (--all adds the history)
//   quotegen export image          - JPEG of the rendered quotation
//   quotegen export pdf            - Single A4 page with the rendered image
//   quotegen export xlsx           - Workbook with the grouped item table
//   quotegen import <file>         - Load a JSON data file
//
// OUTPUT NAMING:
//   <quotationName>[_完整資料]_<startDate or today>.<ext>
//   <date>_quotation[_完整資料].<ext> when the quotation has no name
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/export"
	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/types"
)

var exportAll bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the working quotation to a file",
}

// exportRunner wraps one Exporter method as a command body.
func exportRunner(do func(*export.Exporter, types.Document) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		exp, err := app.exporter()
		if err != nil {
			return err
		}
		path, err := do(exp, ed.Document())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	}
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the data file",
	Long: `Write the working quotation as an indented JSON data file. With --all the
file also carries the saved history and can restore both via 'import'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var hist []types.HistoryEntry
		if exportAll {
			var err error
			if hist, err = app.history.List(cmd.Context()); err != nil {
				return err
			}
		}
		return exportRunner(func(e *export.Exporter, doc types.Document) (string, error) {
			return e.JSON(doc, hist, exportAll)
		})(cmd, args)
	},
}

var exportImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Export the rendered quotation as JPEG",
	Args:  cobra.NoArgs,
	RunE:  exportRunner((*export.Exporter).Image),
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export the rendered quotation as PDF",
	Args:  cobra.NoArgs,
	RunE:  exportRunner((*export.Exporter).PDF),
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Export the item table as an Excel workbook",
	Args:  cobra.NoArgs,
	RunE:  exportRunner((*export.Exporter).XLSX),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON data file",
	Long: `Merge the history of a data file into the saved history (entries already
present are skipped) and make its quotation the working document. A file that
is not a valid data file changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		res, err := export.Import(cmd.Context(), data, app.history)
		if errors.Is(err, export.ErrNothingToImport) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
			return nil
		}
		if err != nil {
			return err
		}

		if res.Current != nil {
			ed, err := quotation.NewEditor(*res.Current)
			if err != nil {
				return err
			}
			if err := app.commit(ed); err != nil {
				return err
			}
		}

		app.logger.Info("import.ok",
			"history", res.HistoryImported,
			"current", res.Current != nil,
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s).\n", res.Count())
		return nil
	},
}

func init() {
	exportJSONCmd.Flags().BoolVar(&exportAll, "all", false, "Include the saved history")

	exportCmd.AddCommand(exportJSONCmd, exportImageCmd, exportPDFCmd, exportXLSXCmd)
	rootCmd.AddCommand(exportCmd, importCmd)
}
