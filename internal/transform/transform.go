// Package transform turns one decoded image into the image that gets encoded:
// downscale, square, then normalize the pixel mode for the output format.
// Nothing in here touches the filesystem.
package transform

import (
	"image"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// MaxStretchRatio is the largest long/short side ratio that is squared by
// stretching. Anything wider is padded instead.
const MaxStretchRatio = 1.2

// Transform runs the full pipeline. The input image is never modified.
func Transform(img image.Image, cfg Config) (image.Image, error) {
	if cfg.MaxDimension <= 0 {
		return nil, ErrInvalidDimension
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if img.ColorModel() == nil {
		return nil, &UnsupportedModeError{Mode: ModeOf(img), Target: cfg.Format}
	}

	out := Downscale(img, cfg.MaxDimension)
	out = Square(out, cfg.Square)
	return Normalize(out, cfg.Format)
}

// ScaledSize returns the dimensions Downscale produces for a w x h image.
func ScaledSize(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}

	aspect := float64(w) / float64(h)
	if w > h {
		return maxDim, atLeastOne(int(float64(maxDim) / aspect))
	}
	if h > w {
		return atLeastOne(int(float64(maxDim) * aspect)), maxDim
	}
	return maxDim, maxDim
}

// Downscale shrinks img so its larger side equals maxDim, keeping the aspect
// ratio. Images already within bounds are returned as is.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := newCanvas(family(img), g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

// Strategy resolves mode against the image size: it returns SquareNone for
// images that need no squaring and SquareStretch or SquarePad otherwise.
func Strategy(w, h int, mode SquareMode) SquareMode {
	if mode == SquareNone || w == h || w <= 0 || h <= 0 {
		return SquareNone
	}
	if mode != SquareAuto {
		return mode
	}

	long, short := w, h
	if h > w {
		long, short = h, w
	}
	if float64(long)/float64(short) <= MaxStretchRatio {
		return SquareStretch
	}
	return SquarePad
}

// Square makes img S x S where S is its larger side.
func Square(img image.Image, mode SquareMode) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := max(w, h)

	switch Strategy(w, h, mode) {
	case SquareStretch:
		dst := newCanvas(family(img), image.Rect(0, 0, side, side))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	case SquarePad:
		dst := newCanvas(family(img), image.Rect(0, 0, side, side))
		fillWhite(dst)
		x, y := (side-w)/2, (side-h)/2
		draw.Draw(dst, image.Rect(x, y, x+w, y+h), img, b.Min, draw.Over)
		return dst
	default:
		return img
	}
}

// Normalize converts img into a mode the target format can store. Only JPEG
// needs work: alpha is flattened onto white and exotic modes become RGB.
func Normalize(img image.Image, f Format) (image.Image, error) {
	if f.SupportsAlpha() {
		return img, nil
	}

	m := ModeOf(img)
	if m.HasAlpha() {
		return flatten(img), nil
	}

	switch m {
	case ModeRGB, ModeGray:
		return img, nil
	case ModePalette:
		p := img.(*image.Paletted)
		if paletteHasTransparency(p) {
			return flatten(expandPalette(p)), nil
		}
		return toRGB(p), nil
	case ModeCMYK:
		return toRGB(img), nil
	case ModeOther:
		return flatten(img), nil
	default:
		return nil, &UnsupportedModeError{Mode: m, Target: f}
	}
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
