// =============================================================================
// Quotation Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   quotegen set <field> <value>   - Edit the working quotation
//   quotegen paste                 - Read line items from a table
//   quotegen submit                - Archive to history and preview
//   quotegen export pdf            - Write an output file
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parser, calculation, history, rendering and export
//   - pkg/utils/ : File writing and output naming
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/quotegen/cmd"
)

func main() {
	cmd.Execute()
}
