package export

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/quotegen/internal/render"
	"github.com/ginjaninja78/quotegen/internal/types"
	"github.com/ginjaninja78/quotegen/pkg/utils"
)

var (
	// ErrExportInProgress indicates an export or dismissal was attempted
	// while another export is running.
	ErrExportInProgress = errors.New("an export is already in progress")

	// ErrDismissed indicates an export was attempted after the view closed.
	ErrDismissed = errors.New("quotation view has been dismissed")
)

// Output writes a finished export file.
type Output interface {
	Write(fileName string, data []byte) (string, error)
}

// view states
const (
	stateOpen int32 = iota
	stateExporting
	stateDismissed
)

// Exporter produces export files for one quotation view. At most one export
// runs at a time, and the view cannot be dismissed while it does.
type Exporter struct {
	out         Output
	raster      *render.Raster
	jpegQuality int
	logger      *slog.Logger
	now         func() time.Time

	state     atomic.Int32
	glyphWarn sync.Once
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithJPEGQuality sets the JPEG quality (1..100).
func WithJPEGQuality(q int) Option {
	return func(e *Exporter) { e.jpegQuality = q }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithClock overrides the time source used for file names and bundle dates.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// NewExporter returns an Exporter writing to out and drawing with raster.
func NewExporter(out Output, raster *render.Raster, opts ...Option) *Exporter {
	e := &Exporter{
		out:         out,
		raster:      raster,
		jpegQuality: DefaultJPEGQuality,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.state.Load() == stateExporting
}

// Dismiss closes the view. It fails with ErrExportInProgress while an export
// is running; dismissing twice is a no-op.
func (e *Exporter) Dismiss() error {
	if e.state.CompareAndSwap(stateOpen, stateDismissed) {
		return nil
	}
	if e.state.Load() == stateExporting {
		return ErrExportInProgress
	}
	return nil
}

// =============================================================================
// EXPORT OPERATIONS
// =============================================================================

// JSON writes the data bundle of doc; allData adds the history list.
func (e *Exporter) JSON(doc types.Document, history []types.HistoryEntry, allData bool) (string, error) {
	return e.run("json", doc, allData, func() ([]byte, error) {
		return EncodeJSON(NewBundle(doc, history, allData, e.now()))
	})
}

// Image writes the rendered document as a JPEG.
func (e *Exporter) Image(doc types.Document) (string, error) {
	return e.run("jpg", doc, false, func() ([]byte, error) {
		return EncodeJPEG(e.draw(render.Build(doc)), e.jpegQuality)
	})
}

// PDF writes the rendered document as a single A4 page.
func (e *Exporter) PDF(doc types.Document) (string, error) {
	return e.run("pdf", doc, false, func() ([]byte, error) {
		v := render.Build(doc)
		return EncodePDF(e.draw(v), v.Title)
	})
}

// XLSX writes the grouped item table as a workbook.
func (e *Exporter) XLSX(doc types.Document) (string, error) {
	return e.run("xlsx", doc, false, func() ([]byte, error) {
		return EncodeXLSX(render.Build(doc))
	})
}

// draw rasterises v. Text the font cannot draw is reported once per
// Exporter.
func (e *Exporter) draw(v render.View) *image.RGBA {
	if missing := e.raster.MissingGlyphs(v); len(missing) > 0 {
		e.glyphWarn.Do(func() {
			e.logger.Warn("render.glyphs.missing",
				slog.Int("count", len(missing)),
				slog.String("sample", string(missing[:min(len(missing), 8)])),
				slog.String("hint", "set render.font_path to a font with CJK glyphs"),
			)
		})
	}
	return e.raster.Draw(v)
}

// run holds the view in the exporting state while build and write run.
// Nothing is written unless build succeeds.
func (e *Exporter) run(ext string, doc types.Document, allData bool, build func() ([]byte, error)) (string, error) {
	if !e.state.CompareAndSwap(stateOpen, stateExporting) {
		if e.state.Load() == stateDismissed {
			return "", ErrDismissed
		}
		return "", ErrExportInProgress
	}
	defer e.state.Store(stateOpen)

	start := time.Now()
	logger := e.logger.With(slog.String("run_id", uuid.NewString()))
	data, err := build()
	if err != nil {
		logger.Error("export."+ext+".failed", slog.Any("error", err))
		return "", fmt.Errorf("failed to export %s: %w", ext, err)
	}

	name := utils.GenerateOutputFileName(utils.NameParams{
		QuotationName: doc.QuotationName,
		StartDate:     doc.StartDate,
		AllData:       allData,
		Ext:           ext,
		Now:           e.now(),
	})
	path, err := e.out.Write(name, data)
	if err != nil {
		logger.Error("export."+ext+".failed", slog.Any("error", err))
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	logger.Info("export."+ext+".ok",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return path, nil
}
