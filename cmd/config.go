// =============================================================================
// Quotation Generator - Config Commands
// =============================================================================
//
// COMMAND USAGE:
//   quotegen config init [--force]   - Write the default configuration file
//   quotegen config validate         - Check the configuration
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/config"
)

var configForce bool

const fontNotice = "Note: render.font_path is empty. Image and PDF exports need a font with CJK glyphs (e.g. Noto Sans TC) to draw Chinese text."

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default configuration to --config",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(cfgFile, configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
		if config.Default().Render.FontPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), fontNotice)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:         "validate",
	Short:       "Load and check the configuration without running anything",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration is valid.")
		fmt.Fprintf(out, "  Workspace: %s\n", cfg.WorkspaceDir)
		fmt.Fprintf(out, "  Output:    %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "  History:   %s (%s)\n", cfg.History.Backend, cfg.History.Path)
		if cfg.Render.FontPath == "" {
			fmt.Fprintln(out, fontNotice)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
