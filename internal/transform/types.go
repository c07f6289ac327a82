package transform

import (
	"fmt"
	"strings"
)

// Format is an output encoding.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatWEBP
)

// ParseFormat accepts jpg, jpeg, png and webp in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return FormatJPEG, fmt.Errorf("unsupported output format %q (want JPG, PNG or WEBP)", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatWEBP:
		return "WEBP"
	default:
		return "JPG"
	}
}

// Ext is the canonical extension written for the format, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatWEBP:
		return ".webp"
	default:
		return ".jpg"
	}
}

// Matches reports whether ext (dot included, any case) already names this format.
func (f Format) Matches(ext string) bool {
	ext = strings.ToLower(ext)
	switch f {
	case FormatJPEG:
		return ext == ".jpg" || ext == ".jpeg"
	default:
		return ext == f.Ext()
	}
}

// SupportsAlpha is false for formats that cannot store transparency.
func (f Format) SupportsAlpha() bool {
	return f != FormatJPEG
}

// SquareMode selects how a rectangular image becomes square.
type SquareMode int

const (
	// SquareAuto stretches when the aspect ratio is at most MaxStretchRatio
	// and pads otherwise.
	SquareAuto SquareMode = iota
	SquareNone
	SquareStretch
	SquarePad
)

func ParseSquareMode(s string) (SquareMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SquareAuto, nil
	case "none", "off":
		return SquareNone, nil
	case "stretch":
		return SquareStretch, nil
	case "pad", "padcenter":
		return SquarePad, nil
	default:
		return SquareAuto, fmt.Errorf("unsupported square mode %q (want auto, none, stretch or pad)", s)
	}
}

func (m SquareMode) String() string {
	switch m {
	case SquareNone:
		return "none"
	case SquareStretch:
		return "stretch"
	case SquarePad:
		return "pad"
	default:
		return "auto"
	}
}

// Config is fixed for a whole batch.
type Config struct {
	MaxDimension int
	Format       Format
	Square       SquareMode
}
