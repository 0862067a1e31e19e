package tableparser

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// Format writes items as a tab separated table with a header row, the shape
// spreadsheets accept on paste. Parse(Format(items)) returns the same items.
func Format(items []types.LineItem) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, strings.Join(Headers, "\t"))

	for _, it := range items {
		rows = append(rows, strings.Join([]string{
			it.Category,
			it.Item,
			it.Content,
			formatNumber(it.Price),
			strconv.Itoa(it.Count),
			it.Unit,
			formatNumber(it.Amount),
		}, "\t"))
	}

	return strings.Join(rows, "\n")
}

// formatNumber uses the shortest representation that parses back exactly.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
