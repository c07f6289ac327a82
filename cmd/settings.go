package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imgsquare/internal/config"
	"imgsquare/internal/processor"
	"imgsquare/internal/transform"
)

var (
	flagFormat    string
	flagMaxSize   string
	flagOverwrite bool
	flagSquare    string
)

// addSettingsFlags registers the conversion flags shared by convert and scan.
func addSettingsFlags(c *cobra.Command) {
	c.Flags().StringVarP(&flagFormat, "format", "f", "jpg", "output format: jpg, png or webp")
	c.Flags().StringVarP(&flagMaxSize, "max-size", "m", "1000", "largest allowed width or height in pixels")
	c.Flags().BoolVar(&flagOverwrite, "overwrite", true, "replace originals; when false, write into the "+processor.OutputDirName+" subfolder")
	c.Flags().StringVar(&flagSquare, "square", "auto", "squaring: auto, stretch, pad or none")
}

// resolveSettings layers defaults, the config file and explicitly set flags.
func resolveSettings(c *cobra.Command) (config.Settings, error) {
	settings := config.Defaults()

	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			return settings, err
		}
		if err := file.Apply(&settings); err != nil {
			return settings, err
		}
	}

	flags := c.Flags()
	if flags.Changed("format") {
		format, err := transform.ParseFormat(flagFormat)
		if err != nil {
			return settings, err
		}
		settings.Format = format
	}
	if flags.Changed("max-size") {
		settings.MaxDimension = config.ParseMaxDimension(flagMaxSize)
	}
	if flags.Changed("overwrite") {
		settings.Overwrite = flagOverwrite
	}
	if flags.Changed("square") {
		mode, err := transform.ParseSquareMode(flagSquare)
		if err != nil {
			return settings, err
		}
		settings.Square = mode
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}

	return settings, settings.Validate()
}

// newLogger builds the diagnostic logger. "off" or an empty level disables it.
func newLogger(level, path string) (*zap.SugaredLogger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" || level == "off" {
		return zap.NewNop().Sugar(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
