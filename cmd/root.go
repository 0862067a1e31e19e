// =============================================================================
// Quotation Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// one edit or action on the working document.
//
// COBRA CLI STRUCTURE:
//   rootCmd (quotegen)
//   ├── new / set / preview / submit
//   ├── item add|remove|set|move|list
//   ├── paste / copy
//   ├── history list|load
//   ├── export json|image|pdf|xlsx
//   ├── import
//   ├── config init|validate
//   └── version
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, QUOTEGEN_* overrides)
//   2. Sets up logging
//   3. Opens the workspace and the history store
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// app is the environment of the running command. It is nil for commands
// annotated with skipSetup.
var app *application

// skipSetup marks commands that run without a loaded configuration.
const skipSetup = "skipSetup"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "quotegen",
	Short: "Quotation generator - build, preview and export price quotations",
	Long: `quotegen edits a working quotation document and turns it into files a
customer can receive.

Key Features:
  - Line items with automatic subtotal, tax and total
  - Paste items from a spreadsheet as a tab- or space-separated table
  - The last 5 submitted quotations kept in a local history
  - Export as JSON, JPEG, PDF or XLSX; import JSON data files

Example Usage:
  quotegen set company "大同設計"
  quotegen paste --file items.tsv
  quotegen submit
  quotegen export pdf`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] != "" {
			return nil
		}
		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		app = a
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line and releases the application afterwards,
// whether or not the command succeeded.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	if app != nil {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
		app = nil
	}
	return err
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
