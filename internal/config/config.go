// Package config reads runtime settings from PIXPIPE_* environment variables.
//
// The command line itself is reserved for stage tokens, so settings never
// come from flags. Every field has a default and the environment overrides it.
package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/pixel-pipeline/internal/imaging"
	"github.com/ironsheep/pixel-pipeline/internal/pipeline"
)

// AppName is the program name used in help and log output.
const AppName = "pixel-pipeline"

// Config holds the runtime settings.
type Config struct {
	LogLevel    string `help:"Minimum log level." env:"PIXPIPE_LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`
	LogFormat   string `help:"Log record format." env:"PIXPIPE_LOG_FORMAT" default:"text" enum:"text,json"`
	Parallel    bool   `help:"Resize destination rows concurrently." env:"PIXPIPE_PARALLEL" default:"true"`
	JPEGQuality int    `help:"JPEG output quality (1-100)." env:"PIXPIPE_JPEG_QUALITY" default:"95"`
	AutoOrient  bool   `help:"Apply EXIF orientation when loading." env:"PIXPIPE_AUTO_ORIENT" default:"false"`
	Cache       bool   `help:"Reuse decoded images loaded more than once." env:"PIXPIPE_CACHE" default:"true"`
}

// Validate checks values kong cannot constrain with tags.
func (c *Config) Validate(kctx *kong.Context) error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid JPEG quality %d: must be between 1 and 100", c.JPEGQuality)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name(AppName),
		kong.Description("Load, resize, dither and save images in one pass."),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build configuration: %w", err)
	}
	if _, err := parser.Parse(nil); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// CodecOptions returns codec settings. A cache is attached when enabled.
func (c *Config) CodecOptions(logger *slog.Logger) imaging.CodecOptions {
	opts := imaging.CodecOptions{
		AutoOrient:  c.AutoOrient,
		JPEGQuality: c.JPEGQuality,
		Logger:      logger,
	}
	if c.Cache {
		opts.Cache = imaging.NewImageCache()
	}
	return opts
}

// PipelineOptions returns pipeline settings.
func (c *Config) PipelineOptions(logger *slog.Logger) pipeline.Options {
	return pipeline.Options{
		Logger:         logger,
		ParallelResize: c.Parallel,
	}
}
