// =============================================================================
// Quotation Generator - Shared Types
// =============================================================================
//
// This package contains the document types shared by every module. Keeping
// them here avoids import cycles between:
//   - tableparser (produces LineItems)
//   - quotation   (edits and recalculates Documents)
//   - history     (stores HistoryEntries)
//   - render      (groups LineItems for display)
//   - export      (serializes Documents and ExportBundles)
//
// JSON FIELD NAMES:
//   Field names follow the camelCase keys used by previously exported data
//   files, so files written by older versions of the tool import cleanly.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultPercentage is the tax rate applied to a new document.
const DefaultPercentage = 5

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one priced row of a quotation.
//
// INVARIANT:
//   Amount == Price * Count after any edit to Price or Count. The quotation
//   package owns that invariant; nothing else writes Amount.
type LineItem struct {
	// Category groups rows in the rendered document.
	Category string `json:"category"`

	// Item is the row's name.
	Item string `json:"item"`

	// Content is a free-text description.
	Content string `json:"content"`

	// Price is the unit price (non-negative).
	Price float64 `json:"price"`

	// Count is the quantity (positive).
	Count int `json:"count"`

	// Unit is an optional label such as "件" or "式".
	Unit string `json:"unit"`

	// Amount is the derived row total.
	Amount float64 `json:"amount"`
}

// NewLineItem returns the blank row added to a document by default.
func NewLineItem() LineItem {
	return LineItem{Count: 1}
}

// =============================================================================
// QUOTATION DOCUMENT
// =============================================================================

// Document is the full quotation being edited.
//
// DERIVED FIELDS:
//   ExcludingTax, Tax and IncludingTax are recomputed together by the
//   quotation package and are never edited directly.
type Document struct {
	QuotationName string     `json:"quotationName"`
	Company       string     `json:"company"`
	CustomerTaxID string     `json:"customerTaxID,omitempty"`
	QuoterName    string     `json:"quoterName"`
	QuoterTaxID   string     `json:"quoterTaxID,omitempty"`
	Email         string     `json:"email"`
	Tel           string     `json:"tel,omitempty"`
	StartDate     string     `json:"startDate,omitempty"`
	EndDate       string     `json:"endDate,omitempty"`
	ServiceItems  []LineItem `json:"serviceItems"`
	ExcludingTax  float64    `json:"excludingTax"`
	TaxName       string     `json:"taxName,omitempty"`
	Percentage    float64    `json:"percentage"`
	Tax           float64    `json:"tax"`
	IncludingTax  float64    `json:"includingTax"`
	Desc          string     `json:"desc,omitempty"`
	IsSign        bool       `json:"isSign"`

	// CreatedAt is set only when the document is archived to history.
	CreatedAt string `json:"createdAt,omitempty"`
}

// NewDocument returns a fresh working document: one blank row, the default
// tax rate and the signature block enabled.
func NewDocument() Document {
	return Document{
		ServiceItems: []LineItem{NewLineItem()},
		Percentage:   DefaultPercentage,
		IsSign:       true,
	}
}

// Clone returns a deep copy. Documents never share their item slices.
func (d Document) Clone() Document {
	out := d
	out.ServiceItems = make([]LineItem, len(d.ServiceItems))
	copy(out.ServiceItems, d.ServiceItems)
	return out
}

// Canonical returns the JSON encoding used for structural comparison.
// A nil item slice is encoded the same way as an empty one.
func (d Document) Canonical() []byte {
	if d.ServiceItems == nil {
		d.ServiceItems = []LineItem{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Document holds only strings, numbers and bools.
		panic(err)
	}
	return b
}

// Equal reports whether two documents are structurally identical.
func (d Document) Equal(other Document) bool {
	return bytes.Equal(d.Canonical(), other.Canonical())
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryEntry is a Document archived with CreatedAt set. Entries are
// immutable once stored.
type HistoryEntry = Document

// =============================================================================
// EXPORT BUNDLE
// =============================================================================

// ExportBundle is the top-level object of a data export file.
type ExportBundle struct {
	// CurrentData is the working document at export time.
	CurrentData *Document `json:"currentData,omitempty"`

	// HistoryData is present only for "all data" exports.
	HistoryData []HistoryEntry `json:"historyData,omitempty"`

	// ExportDate is an ISO-8601 timestamp.
	ExportDate string `json:"exportDate"`
}
