// =============================================================================
// Quotation Generator - Paste / Copy Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen paste [--append] [--file F | --clipboard]   - Read items from a table
//   quotegen copy [--stdout]                             - Write items as a table
//
// TABLE FORMAT:
//   Tab-separated (or runs of 2+ spaces), optional header row:
//     類別  項目  內容  單價  數量  單位  金額
//   A four-column row is read as 類別 項目 單價 數量.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/tableparser"
)

var (
	pasteAppend    bool
	pasteFile      string
	pasteClipboard bool
	copyStdout     bool
)

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Replace or extend the items from a pasted table",
	Long: `Read a table of line items from standard input, a file or the clipboard.
The rows replace the current items unless --append is given. Input in which
no row is recognised leaves the document unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPasteInput(cmd)
		if err != nil {
			return err
		}

		mode := quotation.PasteReplace
		if pasteAppend {
			mode = quotation.PasteAppend
		}

		ed, err := app.editor()
		if err != nil {
			return err
		}
		n, err := ed.Paste(text, mode)
		if err != nil {
			return err
		}
		app.logger.Debug("paste.parsed", slog.Int("rows", n), slog.String("mode", string(mode)))
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No rows recognised; nothing changed.")
			return nil
		}
		if err := app.commit(ed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pasted %d item(s).\n", n)
		return nil
	},
}

func readPasteInput(cmd *cobra.Command) (string, error) {
	switch {
	case pasteClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return text, nil
	case pasteFile != "":
		data, err := os.ReadFile(pasteFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", pasteFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the items to the clipboard as a table",
	Long: `Write the line items as a tab-separated table with a header row, ready
to paste into a spreadsheet or back into 'quotegen paste'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		text := tableparser.Format(ed.Document().ServiceItems)

		if copyStdout {
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			app.logger.Warn("clipboard.write.failed", slog.Any("error", err))
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Copied items to the clipboard.")
		return nil
	},
}

func init() {
	pasteCmd.Flags().BoolVar(&pasteAppend, "append", false, "Append rows instead of replacing the items")
	pasteCmd.Flags().StringVarP(&pasteFile, "file", "f", "", "Read the table from a file")
	pasteCmd.Flags().BoolVar(&pasteClipboard, "clipboard", false, "Read the table from the clipboard")
	pasteCmd.MarkFlagsMutuallyExclusive("file", "clipboard")

	copyCmd.Flags().BoolVar(&copyStdout, "stdout", false, "Print the table instead of copying it")

	rootCmd.AddCommand(pasteCmd, copyCmd)
}
