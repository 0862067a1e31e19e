// =============================================================================
// Quotation Generator - Text-Table Parser Module
// =============================================================================
//
// This module turns text pasted from a spreadsheet or a chat message into
// line items. Column separators vary by source, so the parser is tolerant:
//   - Tab separated cells (spreadsheet copy)
//   - Runs of two or more spaces (aligned plain text)
//   - Single spaces, as a last resort
//
// SCHEMAS:
//   - 5+ cells: category, item, content, price, count, unit?, amount?
//   - 4 cells:  category, item, price, count (legacy, no content column)
//
// The parser never fails. Lines it cannot use are skipped and the caller
// receives whatever rows were recognised, possibly none.
//
// =============================================================================

package tableparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// =============================================================================
// HEADER LABELS
// =============================================================================

// Headers are the clipboard column labels, in column order. A first line
// containing any of them is treated as a header row.
var Headers = []string{"類別", "項目", "內容", "單價", "數量", "單位", "金額"}

var (
	// multiSpace matches the separator of aligned plain text. Unicode space
	// separators are included so full-width spaces count as whitespace.
	multiSpace = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]{2,}`)

	// headerSplit is used only for the header check on the first line.
	headerSplit = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]{2,}|\t`)

	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse converts pasted text into line items.
//
// PARAMETERS:
//   - text: The raw pasted text.
//
// RETURNS:
//   - The recognised line items in input order. Never nil.
//
// PARSING PROCESS:
//   1. Drop blank lines
//   2. Skip the first line if it looks like a header row
//   3. Tokenize each line (tab > 2+ spaces > single space)
//   4. Dispatch on the token count
//   5. Keep only rows that have both a category and an item
func Parse(text string) []types.LineItem {
	lines := splitLines(text)
	items := make([]types.LineItem, 0, len(lines))
	if len(lines) == 0 {
		return items
	}

	start := 0
	if isHeaderRow(lines[0]) {
		start = 1
	}

	for _, line := range lines[start:] {
		item, ok := parseRow(tokenize(line))
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items
}

// splitLines returns the non-blank lines of text.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// isHeaderRow reports whether any cell of line exactly matches a header label.
func isHeaderRow(line string) bool {
	for _, cell := range headerSplit.Split(strings.TrimSpace(line), -1) {
		cell = strings.TrimSpace(cell)
		for _, label := range Headers {
			if cell == label {
				return true
			}
		}
	}
	return false
}

// tokenize splits one line into trimmed cells.
//
// Tab lines are split as-is so that an empty leading cell keeps the
// remaining columns in place.
func tokenize(line string) []string {
	if strings.Contains(line, "\t") {
		return trimAll(strings.Split(line, "\t"))
	}

	line = strings.TrimSpace(line)
	cells := trimAll(multiSpace.Split(line, -1))

	if len(cells) == 1 && strings.Contains(line, " ") {
		cells = strings.Fields(line)
	}
	return cells
}

func trimAll(cells []string) []string {
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// parseRow maps tokens onto a line item according to the column count.
//
// RETURNS:
//   - The line item and true, or false when the row must be skipped.
func parseRow(cells []string) (types.LineItem, bool) {
	var (
		item   types.LineItem
		amount string
	)

	switch {
	case len(cells) >= 5:
		item.Category = cells[0]
		item.Item = cells[1]
		item.Content = cells[2]
		item.Price = ParsePrice(cells[3])
		item.Count = ParseCount(cells[4])
		item.Unit = cell(cells, 5)
		amount = cell(cells, 6)

	case len(cells) == 4:
		item.Category = cells[0]
		item.Item = cells[1]
		item.Price = ParsePrice(cells[2])
		item.Count = ParseCount(cells[3])

	default:
		return item, false
	}

	if item.Category == "" || item.Item == "" {
		return item, false
	}

	item.Amount = item.Price * float64(item.Count)
	if v, ok := ParseNumber(amount); ok {
		item.Amount = v
	}

	return item, true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// =============================================================================
// NUMERIC PARSING
// =============================================================================

// ParsePrice reads a unit price. Unparseable or negative input becomes 0.
func ParsePrice(s string) float64 {
	v, ok := ParseNumber(s)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// ParseCount reads a quantity. Unparseable or non-positive input becomes 1.
func ParseCount(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 1
	}
	v, err := strconv.Atoi(m)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// ParseNumber parses the longest leading decimal number of s, so
// "5000元" reads as 5000.
func ParseNumber(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
