// =============================================================================
// Quotation Generator - Document Renderer
// =============================================================================
//
// The renderer turns a document into a presentational View. Every output
// (terminal preview, raster image, PDF, XLSX) is drawn from the same View,
// so they all show the same grouping.
//
// GROUPING CONTRACT:
//   - Items are bucketed by category; an empty category maps to 未分類
//   - Buckets appear in the order their category is first seen
//   - Items keep their relative order inside a bucket
//   - The first row of a bucket spans the category label over the bucket
//
// =============================================================================

package render

import (
	"github.com/ginjaninja78/quotegen/internal/types"
)

// Uncategorized labels items without a category.
const Uncategorized = "未分類"

// Bucket is the items of one category.
type Bucket struct {
	Category string
	Items    []types.LineItem
}

// Row is one table row of the rendered document.
type Row struct {
	// Category is the bucket label.
	Category string

	// RowSpan is the bucket size on the first row of a bucket and 0 on the
	// rows it spans over.
	RowSpan int

	// Item is the line item shown in this row.
	Item types.LineItem
}

// Group buckets items by category.
//
// PARAMETERS:
//   - items: The document's line items, in document order.
//
// RETURNS:
//   - One Bucket per distinct category in first-seen order.
func Group(items []types.LineItem) []Bucket {
	groups := make(map[string][]types.LineItem)
	groupOrder := []string{} // order of first occurrence

	for _, it := range items {
		key := it.Category
		if key == "" {
			key = Uncategorized
		}
		if _, exists := groups[key]; !exists {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], it)
	}

	buckets := make([]Bucket, len(groupOrder))
	for i, key := range groupOrder {
		buckets[i] = Bucket{Category: key, Items: groups[key]}
	}
	return buckets
}

// Rows flattens the grouped items into table rows.
func Rows(items []types.LineItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, b := range Group(items) {
		for i, it := range b.Items {
			span := 0
			if i == 0 {
				span = len(b.Items)
			}
			rows = append(rows, Row{Category: b.Category, RowSpan: span, Item: it})
		}
	}
	return rows
}
