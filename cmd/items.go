// =============================================================================
// Quotation Generator - Line Item Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen item list
//   quotegen item add
//   quotegen item remove <n>
//   quotegen item set <n> <field> <value>
//   quotegen item move <from> <to>
//
// Positions are 1-based as shown by 'item list'.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/render"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Edit the line items",
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the line items with their positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		doc := ed.Document()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"#", "類別", "項目", "內容", "單價", "數量", "單位", "金額"})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		for i, it := range doc.ServiceItems {
			table.Append([]string{
				strconv.Itoa(i + 1),
				it.Category,
				it.Item,
				it.Content,
				render.Number(it.Price),
				strconv.Itoa(it.Count),
				it.Unit,
				render.Number(it.Amount),
			})
		}
		table.Render()

		fmt.Fprintf(cmd.OutOrStdout(), "未稅：%s  稅：%s  含稅：%s\n",
			render.Amount(doc.ExcludingTax), render.Number(doc.Tax), render.Amount(doc.IncludingTax))
		return nil
	},
}

var itemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a blank line item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		n := ed.AddItem()
		if err := app.commit(ed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added item %d.\n", n+1)
		return nil
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove a line item",
	Long:  `Remove the item at position n. The last remaining item cannot be removed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		ed, err := app.editor()
		if err != nil {
			return err
		}
		if err := ed.RemoveItem(i); err != nil {
			return err
		}
		return app.commit(ed)
	},
}

var itemSetCmd = &cobra.Command{
	Use:   "set <n> <field> <value>",
	Short: "Set a field of a line item",
	Long: `Set one field of the item at position n. A price that is not a number
becomes 0; a count that is not a positive whole number becomes 1.

Fields: ` + strings.Join(quotation.ItemFields, ", "),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		ed, err := app.editor()
		if err != nil {
			return err
		}
		if err := ed.SetItemField(i, args[1], args[2]); err != nil {
			return err
		}
		return app.commit(ed)
	},
}

var itemMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a line item to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		ed, err := app.editor()
		if err != nil {
			return err
		}
		if err := ed.MoveItem(from, to); err != nil {
			return err
		}
		return app.commit(ed)
	},
}

// parsePosition converts a 1-based position to an index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return n - 1, nil
}

func init() {
	itemCmd.AddCommand(itemListCmd, itemAddCmd, itemRemoveCmd, itemSetCmd, itemMoveCmd)
	rootCmd.AddCommand(itemCmd)
}
