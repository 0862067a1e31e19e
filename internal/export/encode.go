// =============================================================================
// Quotation Generator - Export Encoders
// =============================================================================
//
// Each encoder turns a document (or its rendered image) into the bytes of one
// output file. Encoders never touch the filesystem; the Exporter writes the
// result only after encoding succeeded.
//
// FORMATS:
//   - JSON: data bundle, 2-space indented
//   - JPEG: the rendered image
//   - PDF:  the rendered image on one A4 portrait page, 208mm wide
//   - XLSX: the grouped item table with merged category cells
//
// =============================================================================

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/quotegen/internal/render"
	"github.com/ginjaninja78/quotegen/internal/types"
)

const (
	// PDFImageWidth is the width of the embedded image in millimetres.
	PDFImageWidth = 208.0

	// DefaultJPEGQuality is used when no quality is configured.
	DefaultJPEGQuality = 92

	// SheetName is the worksheet of the XLSX export.
	SheetName = "報價單"
)

// =============================================================================
// JSON
// =============================================================================

// NewBundle builds the export object. History is included only for
// all-data exports; an all-data export with no history still carries an
// empty list.
func NewBundle(current types.Document, history []types.HistoryEntry, allData bool, now time.Time) types.ExportBundle {
	cur := current.Clone()
	b := types.ExportBundle{
		CurrentData: &cur,
		ExportDate:  now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if allData {
		b.HistoryData = make([]types.HistoryEntry, 0, len(history))
		for _, h := range history {
			b.HistoryData = append(b.HistoryData, h.Clone())
		}
	}
	return b
}

// EncodeJSON serialises a bundle with 2-space indentation.
func EncodeJSON(b types.ExportBundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	return data, nil
}

// =============================================================================
// IMAGES
// =============================================================================

// EncodeJPEG encodes img as JPEG. quality outside 1..100 uses the default.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePDF places img at the top-left of one A4 portrait page, 208mm wide
// and proportionally tall. A tall image runs off the page; it is never split
// across pages.
func EncodePDF(img image.Image, title string) ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}

	b := img.Bounds()
	height := float64(b.Dy()) * PDFImageWidth / float64(b.Dx())

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("quotation", opts, &pngBuf)
	pdf.ImageOptions("quotation", 0, 0, PDFImageWidth, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to assemble pdf: %w", err)
	}
	return out.Bytes(), nil
}

// =============================================================================
// XLSX
// =============================================================================

// EncodeXLSX writes the rendered view as a worksheet: metadata lines, the
// item table with each category cell merged over its bucket, then totals.
// Any failed write fails the whole encode.
func EncodeXLSX(v render.View) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	w := &sheetWriter{f: f, sheet: SheetName, row: 1}

	w.set(1, v.Title)
	w.next()
	if v.Subtitle != "" {
		w.set(1, v.Subtitle)
		w.next()
	}
	for _, line := range v.MetaText() {
		w.set(1, line)
		w.next()
	}
	w.next()

	for i, h := range render.Columns {
		w.set(i+1, h)
	}
	headerRow := w.row
	w.next()

	for _, r := range v.Rows {
		if r.RowSpan > 0 {
			w.set(1, r.Category)
			if r.RowSpan > 1 {
				w.merge(1, w.row, w.row+r.RowSpan-1)
			}
		}
		w.set(2, r.Item.Item)
		w.set(3, r.Item.Content)
		w.set(4, r.Item.Price)
		w.set(5, r.Cells()[4])
		w.set(6, r.Item.Amount)
		w.next()
	}

	for _, line := range v.Totals {
		w.set(6, line)
		w.next()
	}
	if v.Desc != "" {
		w.next()
		w.set(1, render.DescLabel)
		w.set(2, v.Desc)
	}

	w.bold(headerRow, 1, len(render.Columns))
	w.widths(map[string]float64{"A": 14, "B": 22, "C": 36, "D": 12, "E": 12, "F": 24})

	if w.err != nil {
		return nil, fmt.Errorf("failed to write worksheet: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter writes cells row by row. After the first error every call is
// a no-op and err holds that error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) next() { w.row++ }

func (w *sheetWriter) cell(col, row int) string {
	if w.err != nil {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
	}
	return name
}

func (w *sheetWriter) set(col int, val any) {
	cell := w.cell(col, w.row)
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, val); err != nil {
		w.err = fmt.Errorf("cell %s: %w", cell, err)
	}
}

func (w *sheetWriter) merge(col, top, bottom int) {
	first, last := w.cell(col, top), w.cell(col, bottom)
	if w.err != nil {
		return
	}
	if err := w.f.MergeCell(w.sheet, first, last); err != nil {
		w.err = fmt.Errorf("merge %s:%s: %w", first, last, err)
	}
}

func (w *sheetWriter) bold(row, fromCol, toCol int) {
	first, last := w.cell(fromCol, row), w.cell(toCol, row)
	if w.err != nil {
		return
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		w.err = fmt.Errorf("header style: %w", err)
		return
	}
	if err := w.f.SetCellStyle(w.sheet, first, last, style); err != nil {
		w.err = fmt.Errorf("style %s:%s: %w", first, last, err)
	}
}

func (w *sheetWriter) widths(cols map[string]float64) {
	for col, width := range cols {
		if w.err != nil {
			return
		}
		if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
			w.err = fmt.Errorf("column %s width: %w", col, err)
		}
	}
}
