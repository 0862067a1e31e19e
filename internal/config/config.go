// =============================================================================
// Quotation Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are layered, each
// layer overriding the one before it:
//   1. Built-in defaults
//   2. The YAML config file (quotegen.yaml), if present
//   3. QUOTEGEN_* environment variables
//
// ENVIRONMENT VARIABLES:
//   A key maps to its upper-cased name with dots replaced by underscores:
//     history.backend    -> QUOTEGEN_HISTORY_BACKEND
//     log.file.max_size  -> QUOTEGEN_LOG_FILE_MAX_SIZE
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ginjaninja78/quotegen/pkg/utils"
)

const (
	// DefaultConfigFile is read when no --config flag is given.
	DefaultConfigFile = "quotegen.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "QUOTEGEN_"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// WorkspaceDir holds the working document (current.json).
	// Default: "./.quotegen"
	WorkspaceDir string `koanf:"workspace_dir" yaml:"workspace_dir" validate:"required"`

	// OutputDir is where exported files are written.
	// Default: "./output"
	OutputDir string `koanf:"output_dir" yaml:"output_dir" validate:"required"`

	History  HistoryConfig  `koanf:"history"  yaml:"history"`
	Document DocumentConfig `koanf:"document" yaml:"document"`
	Render   RenderConfig   `koanf:"render"   yaml:"render"`
	Log      LogConfig      `koanf:"log"      yaml:"log"`
}

// HistoryConfig selects where the history list is stored.
type HistoryConfig struct {
	// Backend is one of "file", "sqlite" or "memory".
	// Default: "file"
	Backend string `koanf:"backend" yaml:"backend" validate:"required,oneof=file sqlite memory"`

	// Path is a directory for "file" and a database file for "sqlite".
	// Default: "./.quotegen/history"
	Path string `koanf:"path" yaml:"path" validate:"required_unless=Backend memory"`
}

// DocumentConfig holds defaults for new documents.
type DocumentConfig struct {
	// DefaultPercentage is the tax rate of a new document.
	// Default: 5
	DefaultPercentage float64 `koanf:"default_percentage" yaml:"default_percentage" validate:"min=0,max=100"`
}

// RenderConfig controls the raster used by image and PDF exports.
type RenderConfig struct {
	// Width is the image width in pixels.
	// Default: 800
	Width int `koanf:"width" yaml:"width" validate:"min=200,max=4000"`

	// FontPath is an OpenType/TrueType font with CJK glyphs. Empty uses a
	// built-in Latin-only font.
	FontPath string `koanf:"font_path" yaml:"font_path" validate:"omitempty,file"`

	// LogoPath is drawn left of the title when set.
	LogoPath string `koanf:"logo_path" yaml:"logo_path" validate:"omitempty,file"`

	// JPEGQuality is the image export quality.
	// Default: 92
	JPEGQuality int `koanf:"jpeg_quality" yaml:"jpeg_quality" validate:"min=1,max=100"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  yaml:"level"  validate:"required,oneof=debug info warn error"`
	Format string        `koanf:"format" yaml:"format" validate:"required,oneof=pretty text json"`
	File   LogFileConfig `koanf:"file"   yaml:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"     yaml:"enabled"`
	Path       string `koanf:"path"        yaml:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    yaml:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     yaml:"max_age"     validate:"omitempty,min=0,max=365"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// defaults returns the built-in configuration values.
func defaults() map[string]any {
	return map[string]any{
		"workspace_dir": "./.quotegen",
		"output_dir":    "./output",

		"history.backend": "file",
		"history.path":    "./.quotegen/history",

		"document.default_percentage": 5.0,

		"render.width":        800,
		"render.font_path":    "",
		"render.logo_path":    "",
		"render.jpeg_quality": 92,

		"log.level":            "info",
		"log.format":           "pretty",
		"log.file.enabled":     false,
		"log.file.path":        "./.quotegen/quotegen.log",
		"log.file.max_size":    10,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := load(false, "")
	if err != nil {
		// The defaults map always unmarshals.
		panic(err)
	}
	return cfg
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file to read. A missing file is not an error.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be parsed or a value is invalid.
func Load(configPath string) (*Config, error) {
	cfg, err := load(true, configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(withEnv bool, configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := loadFileIfExists(k, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if withEnv {
		keys := envKeys()
		if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return keys[strings.TrimPrefix(s, EnvPrefix)]
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// envKeys maps HISTORY_BACKEND style names to their dotted keys. Variables
// that match no key are ignored.
func envKeys() map[string]string {
	out := make(map[string]string)
	for key := range defaults() {
		out[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	return out
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if !utils.FileExists(path) {
		return nil
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

// =============================================================================
// WRITING
// =============================================================================

// WriteDefault writes the built-in configuration to path as YAML. An
// existing file is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force && utils.FileExists(path) {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := yamlv3.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
