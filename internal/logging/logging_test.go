package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Config{Level: "info", Format: "json"}, &buf)
	defer closeFn()

	logger.Info("history.save.ok", slog.Int("entries", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "history.save.ok", entry["msg"])
	assert.InDelta(t, 3, entry["entries"], 0)
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Config{Level: "debug", Format: "text"}, &buf)
	defer closeFn()

	logger.Debug("paste.parsed", slog.Int("rows", 2))
	assert.Contains(t, buf.String(), "msg=paste.parsed")
	assert.Contains(t, buf.String(), "rows=2")
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Config{Level: "info", Format: "pretty"}, &buf)
	defer closeFn()

	logger.Info("export.pdf.ok", slog.String("path", "out/a.pdf"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "export.pdf.ok")
	assert.Contains(t, buf.String(), "out/a.pdf")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Config{Level: "warn", Format: "json"}, &buf)
	defer closeFn()

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quotegen.log")

	var buf bytes.Buffer
	logger, closeFn := New(Config{
		Level:  "info",
		Format: "text",
		File:   FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}, &buf)

	logger.Info("import.ok", slog.Int("count", 2))
	require.NoError(t, closeFn())

	assert.Contains(t, buf.String(), "import.ok")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "import.ok", entry["msg"])
}

func TestRedaction(t *testing.T) {
	for _, format := range []string{"json", "text", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closeFn := New(Config{Level: "info", Format: format}, &buf)
			defer closeFn()

			logger.Info("submit",
				slog.String("email", "ming@example.com"),
				slog.String("customerTaxID", "12345678"),
				slog.String("contact", "someone@example.org"),
				slog.String("company", "大同設計"),
			)

			out := buf.String()
			assert.NotContains(t, out, "ming@example.com")
			assert.NotContains(t, out, "12345678")
			assert.NotContains(t, out, "someone@example.org")
			assert.Contains(t, out, "大同設計")
		})
	}
}

func TestRedaction_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Config{Level: "info", Format: "pretty"}, &buf)
	defer closeFn()

	logger.With(slog.String("tel", "0912345678")).Info("preview")
	assert.NotContains(t, buf.String(), "0912345678")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, slogToCharmLevel(slog.LevelDebug))
	assert.Equal(t, log.InfoLevel, slogToCharmLevel(slog.LevelInfo))
	assert.Equal(t, log.WarnLevel, slogToCharmLevel(slog.LevelWarn))
	assert.Equal(t, log.ErrorLevel, slogToCharmLevel(slog.LevelError))
	assert.Equal(t, log.ErrorLevel, slogToCharmLevel(slog.Level(12)))
}

func TestMultiHandler_Handle(t *testing.T) {
	var debugBuf, infoBuf bytes.Buffer
	multi := NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	logger := slog.New(multi).With(slog.String("cmd", "export"))

	logger.Info("both")
	assert.Contains(t, debugBuf.String(), "both")
	assert.Contains(t, infoBuf.String(), `"cmd":"export"`)

	debugBuf.Reset()
	infoBuf.Reset()

	logger.Debug("debug only")
	assert.Contains(t, debugBuf.String(), "debug only")
	assert.Empty(t, infoBuf.String())
}
