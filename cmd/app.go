package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quotegen/internal/config"
	"github.com/ginjaninja78/quotegen/internal/export"
	"github.com/ginjaninja78/quotegen/internal/history"
	"github.com/ginjaninja78/quotegen/internal/logging"
	"github.com/ginjaninja78/quotegen/internal/quotation"
	"github.com/ginjaninja78/quotegen/internal/render"
	"github.com/ginjaninja78/quotegen/internal/workspace"
	"github.com/ginjaninja78/quotegen/pkg/utils"
)

// application bundles what a command needs: configuration, logger, the
// working document store and the history.
type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	ws       *workspace.Workspace
	history  *history.Store
}

func newApplication(cmd *cobra.Command) (*application, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, closeLog := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
		},
	}, cmd.ErrOrStderr())
	logger = logger.With(slog.String("cmd", cmd.Name()))

	backend, err := openBackend(cmd.Context(), cfg.History)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	return &application{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		ws:       workspace.New(cfg.WorkspaceDir, cfg.Document.DefaultPercentage, logger),
		history:  history.NewStore(backend, history.WithLogger(logger)),
	}, nil
}

// openBackend opens the configured history backend.
func openBackend(ctx context.Context, cfg config.HistoryConfig) (history.Backend, error) {
	switch cfg.Backend {
	case "sqlite":
		return history.NewSQLiteBackend(ctx, cfg.Path)
	case "memory":
		return history.NewMemoryBackend(), nil
	default:
		return history.NewFileBackend(cfg.Path)
	}
}

// Close releases the history backend and the log file.
func (a *application) Close() error {
	return errors.Join(a.history.Close(), a.closeLog())
}

// editor loads the working document into an editor.
func (a *application) editor() (*quotation.Editor, error) {
	doc, err := a.ws.Load()
	if err != nil {
		return nil, err
	}
	return quotation.NewEditor(doc)
}

// commit saves the editor's document as the working document.
func (a *application) commit(ed *quotation.Editor) error {
	return a.ws.Save(ed.Document())
}

// exporter builds an exporter from the render settings.
func (a *application) exporter() (*export.Exporter, error) {
	r, err := render.NewRaster(a.cfg.Render.Width, a.cfg.Render.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare renderer: %w", err)
	}
	if a.cfg.Render.LogoPath != "" {
		if r.Logo, err = render.LoadLogo(a.cfg.Render.LogoPath); err != nil {
			return nil, err
		}
	}

	return export.NewExporter(
		utils.NewFileManager(a.cfg.OutputDir),
		r,
		export.WithJPEGQuality(a.cfg.Render.JPEGQuality),
		export.WithLogger(a.logger),
	), nil
}
