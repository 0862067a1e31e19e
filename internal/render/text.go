package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteText renders v as a terminal preview.
//
// LAYOUT:
//   title, subtitle, metadata lines, the item table with the category
//   label on the first row of each bucket, totals, remarks, signature box.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintln(&b, v.Title)
	if v.Subtitle != "" {
		fmt.Fprintln(&b, v.Subtitle)
	}
	fmt.Fprintln(&b)
	for _, line := range v.MetaText() {
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)

	table := tablewriter.NewWriter(&b)
	table.SetHeader(Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, r := range v.Rows {
		cells := r.Cells()
		if r.RowSpan == 0 {
			cells[0] = ""
		}
		table.Append(cells)
	}
	table.Render()

	for _, line := range v.Totals {
		fmt.Fprintf(&b, "%*s\n", 40, line)
	}

	if lines := v.DescLines(); len(lines) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, DescLabel)
		for _, line := range lines {
			fmt.Fprintln(&b, "  "+line)
		}
	}

	if v.Sign {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, SignLabel)
		fmt.Fprintln(&b, strings.Repeat("_", 40))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
