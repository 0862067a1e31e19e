// =============================================================================
// Quotation Generator - Document Editor
// =============================================================================
//
// The Editor owns the working document. Every mutating operation builds the
// next document, checks its amounts and recalculates it before installing
// it. A rejected edit leaves the working document as it was.
//
// FIELD NAMES:
//   Fields are addressed by their JSON names (quotationName, company, ...)
//   so the names a user sees in an exported file are the names the CLI
//   accepts.
//
// =============================================================================

package quotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/quotegen/internal/tableparser"
	"github.com/ginjaninja78/quotegen/internal/types"
)

// PasteMode selects how pasted rows are combined with existing items.
type PasteMode string

const (
	// PasteReplace discards the current items.
	PasteReplace PasteMode = "replace"

	// PasteAppend keeps the current items and adds the pasted rows after them.
	PasteAppend PasteMode = "append"
)

// DocumentFields lists the metadata fields accepted by SetField.
var DocumentFields = []string{
	"quotationName", "company", "customerTaxID", "quoterName", "quoterTaxID",
	"email", "tel", "startDate", "endDate", "desc", "taxName", "percentage", "isSign",
}

// ItemFields lists the line-item fields accepted by SetItemField.
var ItemFields = []string{"category", "item", "content", "price", "count", "unit"}

// =============================================================================
// EDITOR
// =============================================================================

// Editor applies user edits to a working document.
type Editor struct {
	doc types.Document
}

// NewEditor returns an editor for a copy of doc, recalculated.
//
// RETURNS:
//   - An error wrapping ErrAmountOutOfRange if doc's amounts are too large.
func NewEditor(doc types.Document) (*Editor, error) {
	e := &Editor{}
	if err := e.Replace(doc); err != nil {
		return nil, err
	}
	return e, nil
}

// Document returns a copy of the working document.
func (e *Editor) Document() types.Document {
	return e.doc.Clone()
}

// Replace installs doc as the working document. Nothing of the previous
// document survives.
func (e *Editor) Replace(doc types.Document) error {
	return e.install(doc.Clone())
}

// install checks and recalculates next, then makes it the working document.
// next must not share item storage with the current document.
func (e *Editor) install(next types.Document) error {
	if len(next.ServiceItems) == 0 {
		next.ServiceItems = []types.LineItem{types.NewLineItem()}
	}
	if err := CheckAmounts(next); err != nil {
		return err
	}
	Apply(&next)
	e.doc = next
	return nil
}

// SetField sets one metadata field.
//
// PARAMETERS:
//   - name: The JSON field name (see DocumentFields).
//   - value: The raw value. percentage is read like a typed number (an
//     unparseable value becomes 0); isSign accepts strconv.ParseBool input.
//
// RETURNS:
//   - ErrUnknownField for a name outside DocumentFields.
func (e *Editor) SetField(name, value string) error {
	next := e.doc.Clone()
	d := &next

	switch name {
	case "quotationName":
		d.QuotationName = value
	case "company":
		d.Company = value
	case "customerTaxID":
		d.CustomerTaxID = value
	case "quoterName":
		d.QuoterName = value
	case "quoterTaxID":
		d.QuoterTaxID = value
	case "email":
		d.Email = value
	case "tel":
		d.Tel = value
	case "startDate":
		d.StartDate = value
	case "endDate":
		d.EndDate = value
	case "desc":
		d.Desc = value
	case "taxName":
		d.TaxName = value
	case "percentage":
		v, _ := tableparser.ParseNumber(value)
		d.Percentage = v
	case "isSign":
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("failed to parse isSign %q: %w", value, err)
		}
		d.IsSign = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return e.install(next)
}

// AddItem appends a blank line item and returns its index.
func (e *Editor) AddItem() int {
	e.doc.ServiceItems = append(e.doc.ServiceItems, types.NewLineItem())
	// A blank item adds nothing to the totals.
	Apply(&e.doc)
	return len(e.doc.ServiceItems) - 1
}

// RemoveItem deletes the line item at index. The last remaining item cannot
// be removed.
func (e *Editor) RemoveItem(index int) error {
	items := e.doc.ServiceItems
	if err := checkIndex(index, len(items)); err != nil {
		return err
	}
	if len(items) <= 1 {
		return ErrLastItem
	}

	next := e.doc.Clone()
	next.ServiceItems = make([]types.LineItem, 0, len(items)-1)
	next.ServiceItems = append(next.ServiceItems, items[:index]...)
	next.ServiceItems = append(next.ServiceItems, items[index+1:]...)
	return e.install(next)
}

// SetItemField sets one field of the line item at index.
//
// PARAMETERS:
//   - index: The item position.
//   - field: The JSON field name (see ItemFields).
//   - value: The raw value. price falls back to 0 and count to 1 when the
//     value cannot be read as a number.
//
// RETURNS:
//   - An error wrapping ErrAmountOutOfRange if the edit makes an amount too
//     large; the item is left unchanged.
func (e *Editor) SetItemField(index int, field, value string) error {
	if err := checkIndex(index, len(e.doc.ServiceItems)); err != nil {
		return err
	}
	next := e.doc.Clone()
	it := &next.ServiceItems[index]

	switch field {
	case "category":
		it.Category = value
	case "item":
		it.Item = value
	case "content":
		it.Content = value
	case "unit":
		it.Unit = value
	case "price":
		it.Price = tableparser.ParsePrice(value)
	case "count":
		it.Count = tableparser.ParseCount(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return e.install(next)
}

// MoveItem relocates the line item at from to position to.
func (e *Editor) MoveItem(from, to int) error {
	items, err := Move(e.doc.ServiceItems, from, to)
	if err != nil {
		return err
	}
	next := e.doc.Clone()
	next.ServiceItems = items
	return e.install(next)
}

// Paste parses text and installs the rows according to mode.
//
// RETURNS:
//   - The number of rows parsed. Zero rows leaves the document untouched.
//   - An error wrapping ErrAmountOutOfRange if a row's amount is too large;
//     none of the rows are installed.
func (e *Editor) Paste(text string, mode PasteMode) (int, error) {
	parsed := tableparser.Parse(text)
	if len(parsed) == 0 {
		return 0, nil
	}

	next := e.doc.Clone()
	if mode == PasteAppend {
		next.ServiceItems = append(next.ServiceItems, parsed...)
	} else {
		next.ServiceItems = parsed
	}

	if err := e.install(next); err != nil {
		return 0, err
	}
	return len(parsed), nil
}
