// Package workspace keeps the working document between CLI invocations.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/types"
	"github.com/ginjaninja78/quotegen/pkg/utils"
)

// CurrentFile is the working document's file name inside the workspace.
const CurrentFile = "current.json"

// ErrCorrupt indicates a working document that is not valid JSON.
var ErrCorrupt = errors.New("working document is corrupt")

// Workspace stores the working document in a directory.
type Workspace struct {
	dir               string
	defaultPercentage float64
	logger            *slog.Logger
}

// New returns a workspace rooted at dir. Fresh documents get
// defaultPercentage as their tax rate.
func New(dir string, defaultPercentage float64, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{dir: dir, defaultPercentage: defaultPercentage, logger: logger}
}

// Path returns the working document's file path.
func (w *Workspace) Path() string {
	return filepath.Join(w.dir, CurrentFile)
}

// Fresh returns a new blank document with the configured tax rate.
func (w *Workspace) Fresh() types.Document {
	doc := types.NewDocument()
	doc.Percentage = w.defaultPercentage
	quotation.Apply(&doc)
	return doc
}

// Load reads the working document. A missing file yields a fresh document.
// The result is always recalculated and has at least one item.
func (w *Workspace) Load() (types.Document, error) {
	data, err := os.ReadFile(w.Path())
	if errors.Is(err, os.ErrNotExist) {
		return w.Fresh(), nil
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to read working document: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	ed, err := quotation.NewEditor(doc)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return ed.Document(), nil
}

// Save writes doc as the working document.
func (w *Workspace) Save(doc types.Document) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace %s: %w", w.dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode working document: %w", err)
	}
	if err := utils.WriteFileAtomic(w.Path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to save working document: %w", err)
	}

	w.logger.Debug("workspace.save.ok", slog.Int("items", len(doc.ServiceItems)))
	return nil
}
