// =============================================================================
// Quotation Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the generator:
//   - Output directory management
//   - Atomic file writes (temp file + rename)
//   - Export file naming
//
// WRITE STRATEGY:
//   Outputs are written to a uniquely named temp file next to the target
//   and renamed into place only after a successful sync. A failed export
//   therefore never leaves a partial file behind.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes export files into an output directory.
type FileManager struct {
	// OutputDir is the directory where exported files are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager for outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// Write stores data as fileName inside the output directory.
//
// RETURNS:
//   - The full path of the written file.
//   - An error if the directory or the file cannot be written.
func (fm *FileManager) Write(fileName string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.OutputDir, fileName)
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temp file in the same directory.
// On any failure the temp file is removed and path is left untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// AllDataSuffix marks exports that include the history list.
const AllDataSuffix = "完整資料"

// NameParams are the inputs of GenerateOutputFileName.
type NameParams struct {
	// QuotationName is the document name; may be empty.
	QuotationName string

	// StartDate is the document start date (YYYY-MM-DD); may be empty.
	StartDate string

	// AllData selects the "all data" suffix.
	AllData bool

	// Ext is the file extension without the dot ("json", "jpg", "pdf").
	Ext string

	// Now is the reference time for "today".
	Now time.Time
}

// GenerateOutputFileName builds the file name of an export.
//
// NAMING RULES:
//   With a quotation name:    {name}[_完整資料]_{startDate or ISO today}.{ext}
//   Without a quotation name: {zh-TW today}_quotation[_完整資料].{ext}
//
// EXAMPLE:
//   params: {QuotationName: "官網改版", StartDate: "2024-03-01", Ext: "pdf"}
//   output: "官網改版_2024-03-01.pdf"
//
// Path separators are replaced by "-" so the result is always a single
// path element.
func GenerateOutputFileName(p NameParams) string {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	var name string
	if p.QuotationName != "" {
		date := p.StartDate
		if date == "" {
			date = now.UTC().Format("2006-01-02")
		}
		parts := []string{p.QuotationName}
		if p.AllData {
			parts = append(parts, AllDataSuffix)
		}
		parts = append(parts, date)
		name = strings.Join(parts, "_")
	} else {
		parts := []string{LocaleDate(now), "quotation"}
		if p.AllData {
			parts = append(parts, AllDataSuffix)
		}
		name = strings.Join(parts, "_")
	}

	return sanitizeFileName(name) + "." + strings.TrimPrefix(p.Ext, ".")
}

// LocaleDate formats t the way zh-TW short dates are written, e.g. 2024/3/1.
func LocaleDate(t time.Time) string {
	return t.Format("2006/1/2")
}

func sanitizeFileName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
