package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"imgsquare/internal/transform"
)

// DefaultMaxDimension is used whenever the max size input is missing or invalid.
const DefaultMaxDimension = 1000

// Settings is the resolved configuration for one run.
type Settings struct {
	Format       transform.Format
	MaxDimension int
	Overwrite    bool
	Square       transform.SquareMode
	LogLevel     string
}

// Defaults returns JPG output, 1000px, in-place writes and automatic squaring.
func Defaults() Settings {
	return Settings{
		Format:       transform.FormatJPEG,
		MaxDimension: DefaultMaxDimension,
		Overwrite:    true,
		Square:       transform.SquareAuto,
		LogLevel:     "off",
	}
}

// Transform returns the engine configuration for these settings.
func (s Settings) Transform() transform.Config {
	return transform.Config{
		MaxDimension: s.MaxDimension,
		Format:       s.Format,
		Square:       s.Square,
	}
}

// Validate checks fields that have no silent fallback.
func (s Settings) Validate() error {
	if s.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive, got %d", s.MaxDimension)
	}
	switch s.Format {
	case transform.FormatJPEG, transform.FormatPNG, transform.FormatWEBP:
	default:
		return fmt.Errorf("unknown output format %d", s.Format)
	}
	switch s.Square {
	case transform.SquareAuto, transform.SquareNone, transform.SquareStretch, transform.SquarePad:
	default:
		return fmt.Errorf("unknown square mode %d", s.Square)
	}
	return nil
}

// ParseError describes max size text that could not be used.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid max size %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNotPositive = errors.New("must be a positive integer")

func parseMaxDimension(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &ParseError{Input: text, Err: errors.New("empty")}
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ParseError{Input: text, Err: err}
	}
	if v <= 0 {
		return 0, &ParseError{Input: text, Err: errNotPositive}
	}
	return v, nil
}

// ParseMaxDimension reads a max size typed by the user. Anything that is not a
// positive integer yields DefaultMaxDimension.
func ParseMaxDimension(text string) int {
	v, err := parseMaxDimension(text)
	if err != nil {
		return DefaultMaxDimension
	}
	return v
}

// File is the optional YAML configuration file. Pointer fields distinguish
// "unset" from zero values.
type File struct {
	Format    *string `yaml:"format"`
	MaxSize   *string `yaml:"max_size"`
	Overwrite *bool   `yaml:"overwrite"`
	Square    *string `yaml:"square"`
	LogLevel  *string `yaml:"log_level"`
}

// Load reads and parses a configuration file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return f, nil
}

// Apply layers the file's set fields over s.
func (f File) Apply(s *Settings) error {
	if f.Format != nil {
		format, err := transform.ParseFormat(*f.Format)
		if err != nil {
			return fmt.Errorf("config format: %w", err)
		}
		s.Format = format
	}
	if f.MaxSize != nil {
		s.MaxDimension = ParseMaxDimension(*f.MaxSize)
	}
	if f.Overwrite != nil {
		s.Overwrite = *f.Overwrite
	}
	if f.Square != nil {
		mode, err := transform.ParseSquareMode(*f.Square)
		if err != nil {
			return fmt.Errorf("config square: %w", err)
		}
		s.Square = mode
	}
	if f.LogLevel != nil {
		s.LogLevel = *f.LogLevel
	}
	return nil
}
