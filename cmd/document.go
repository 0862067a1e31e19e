// =============================================================================
// Quotation Generator - Document Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen new                    - Start a blank quotation
//   quotegen set <field> <value>    - Set a document field
//   quotegen preview                - Print the rendered quotation
//   quotegen submit                 - Validate, archive to history, preview
//
// FIELDS:
//   quotationName, company, customerTaxID, quoterName, quoterTaxID, email,
//   tel, startDate, endDate, desc, taxName, percentage, isSign
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/render"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new blank quotation",
	Long: `Replace the working document with a blank quotation: one empty line
item, the configured default tax rate and the signature block enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ws.Save(app.ws.Fresh()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Started a new quotation.")
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a document field",
	Long: `Set one field of the working document. Totals are recalculated after
every change.

Fields: ` + strings.Join(quotation.DocumentFields, ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, value := args[0], args[1]

		ed, err := app.editor()
		if err != nil {
			return err
		}
		if err := ed.SetField(field, value); err != nil {
			if errors.Is(err, quotation.ErrUnknownField) {
				return fmt.Errorf("%w (fields: %s)", err, strings.Join(quotation.DocumentFields, ", "))
			}
			return err
		}
		if err := app.commit(ed); err != nil {
			return err
		}

		if field == "email" {
			if msg := quotation.EmailProblem(value); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the rendered quotation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		return render.WriteText(cmd.OutOrStdout(), render.Build(ed.Document()))
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Archive the quotation to history and preview it",
	Long: `Check that the quotation is complete (company, quoter name, a valid
e-mail and at least one item with a name and a price), store a copy in the
history, then print the preview. An incomplete quotation is not stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := app.editor()
		if err != nil {
			return err
		}
		doc := ed.Document()

		if err := quotation.Validate(doc); err != nil {
			var verr *quotation.ValidationError
			if errors.As(err, &verr) {
				for _, f := range verr.Fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
				}
			}
			return quotation.ErrNotSubmittable
		}

		if _, err := app.history.Save(cmd.Context(), doc); err != nil {
			return fmt.Errorf("failed to save to history: %w", err)
		}
		return render.WriteText(cmd.OutOrStdout(), render.Build(doc))
	},
}

func init() {
	rootCmd.AddCommand(newCmd, setCmd, previewCmd, submitCmd)
}
