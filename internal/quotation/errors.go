package quotation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for editing operations.
var (
	// ErrIndexOutOfRange indicates a line-item position that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLastItem indicates an attempt to remove the only remaining line item.
	ErrLastItem = errors.New("cannot remove the last line item")

	// ErrUnknownField indicates a field name the editor does not recognise.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotSubmittable indicates the document fails submit validation.
	ErrNotSubmittable = errors.New("quotation is not ready to submit")
)

// IndexError reports an out-of-range line-item position.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("item %d out of range (document has %d items)", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange for errors.Is compatibility.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// FieldError describes one failed submit rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every failed submit rule of a document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrNotSubmittable for errors.Is compatibility.
func (e *ValidationError) Unwrap() error {
	return ErrNotSubmittable
}
