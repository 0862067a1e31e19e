package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/types"
)

var (
	// ErrMalformedImport indicates a file that is not a valid data bundle.
	ErrMalformedImport = errors.New("import file is not a valid quotation data file")

	// ErrNothingToImport indicates a valid bundle without usable entries.
	ErrNothingToImport = errors.New("nothing to import")
)

const bundleSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "item": {
      "type": "object",
      "properties": {
        "category": {"type": "string"},
        "item":     {"type": "string"},
        "content":  {"type": "string"},
        "price":    {"type": "number"},
        "count":    {"type": "integer"},
        "unit":     {"type": "string"},
        "amount":   {"type": "number"}
      }
    },
    "document": {
      "type": "object",
      "properties": {
        "quotationName": {"type": "string"},
        "company":       {"type": "string"},
        "customerTaxID": {"type": "string"},
        "quoterName":    {"type": "string"},
        "quoterTaxID":   {"type": "string"},
        "email":         {"type": "string"},
        "tel":           {"type": "string"},
        "startDate":     {"type": "string"},
        "endDate":       {"type": "string"},
        "desc":          {"type": "string"},
        "taxName":       {"type": "string"},
        "percentage":    {"type": "number"},
        "isSign":        {"type": "boolean"},
        "excludingTax":  {"type": "number"},
        "tax":           {"type": "number"},
        "includingTax":  {"type": "number"},
        "createdAt":     {"type": "string"},
        "serviceItems":  {"type": "array", "items": {"$ref": "#/definitions/item"}}
      }
    }
  },
  "type": "object",
  "properties": {
    "currentData": {"oneOf": [{"type": "null"}, {"$ref": "#/definitions/document"}]},
    "historyData": {"oneOf": [{"type": "null"}, {"type": "array", "items": {"$ref": "#/definitions/document"}}]},
    "exportDate":  {"type": "string"}
  }
}`

var bundleSchema = jsonschema.MustCompileString("bundle.schema.json", bundleSchemaJSON)

// DecodeBundle parses and validates a data file.
//
// RETURNS:
//   - The bundle, or an error wrapping ErrMalformedImport.
func DecodeBundle(data []byte) (types.ExportBundle, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return types.ExportBundle{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if err := bundleSchema.Validate(raw); err != nil {
		return types.ExportBundle{}, fmt.Errorf("%w: %s", ErrMalformedImport, schemaMessage(err))
	}

	var b types.ExportBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return types.ExportBundle{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return b, nil
}

func schemaMessage(err error) string {
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		leaf := verr
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			loc = "(root)"
		}
		return loc + ": " + leaf.Message
	}
	return err.Error()
}

// checkAmounts rejects a bundle holding any document whose recalculated
// amounts would be out of range.
func checkAmounts(b types.ExportBundle) error {
	if b.CurrentData != nil {
		if err := quotation.CheckAmounts(*b.CurrentData); err != nil {
			return fmt.Errorf("%w: currentData: %w", ErrMalformedImport, err)
		}
	}
	for i, h := range b.HistoryData {
		if err := quotation.CheckAmounts(h); err != nil {
			return fmt.Errorf("%w: historyData[%d]: %w", ErrMalformedImport, i, err)
		}
	}
	return nil
}

// HistoryImporter merges entries into a history.
type HistoryImporter interface {
	Import(ctx context.Context, entries []types.HistoryEntry) (int, error)
}

// ImportResult describes what an import changed.
type ImportResult struct {
	// Current is the document to install as the working copy, if any.
	Current *types.Document

	// HistoryImported is the number of novel history entries merged.
	HistoryImported int
}

// Count is the total number of imported records.
func (r ImportResult) Count() int {
	n := r.HistoryImported
	if r.Current != nil {
		n++
	}
	return n
}

// Import decodes data and merges its history into hist. The caller
// installs Current as the working document.
//
// ERRORS:
//   - ErrMalformedImport: nothing was changed. Amounts beyond
//     quotation.MaxAmount also wrap quotation.ErrAmountOutOfRange.
//   - ErrNothingToImport: the file had no current document and no new history
func Import(ctx context.Context, data []byte, hist HistoryImporter) (ImportResult, error) {
	b, err := DecodeBundle(data)
	if err != nil {
		return ImportResult{}, err
	}
	if err := checkAmounts(b); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	if len(b.HistoryData) > 0 {
		n, err := hist.Import(ctx, b.HistoryData)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to import history: %w", err)
		}
		res.HistoryImported = n
	}
	res.Current = b.CurrentData

	if res.Count() == 0 {
		return res, ErrNothingToImport
	}
	return res, nil
}
