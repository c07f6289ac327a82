package transform

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Mode is the pixel representation family of a decoded image.
type Mode int

const (
	ModeOther Mode = iota
	ModeRGB
	ModeRGBA
	ModeGray
	ModeGrayAlpha
	ModePalette
	ModeCMYK
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	case ModeGray:
		return "L"
	case ModeGrayAlpha:
		return "LA"
	case ModePalette:
		return "P"
	case ModeCMYK:
		return "CMYK"
	default:
		return "other"
	}
}

// HasAlpha reports whether the mode carries an alpha channel.
func (m Mode) HasAlpha() bool {
	return m == ModeRGBA || m == ModeGrayAlpha
}

// ModeOf classifies img. Premultiplied RGBA buffers with every pixel opaque are
// RGB, which is how the PNG decoder returns truecolor images without alpha.
func ModeOf(img image.Image) Mode {
	switch v := img.(type) {
	case *image.YCbCr:
		return ModeRGB
	case *image.RGBA:
		if v.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.RGBA64:
		if v.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return ModeRGBA
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.Alpha, *image.Alpha16:
		return ModeGrayAlpha
	case *image.Paletted:
		return ModePalette
	case *image.CMYK:
		return ModeCMYK
	default:
		return ModeOther
	}
}

// paletteHasTransparency reports whether any palette entry is not fully opaque.
func paletteHasTransparency(p *image.Paletted) bool {
	for _, c := range p.Palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// family is the mode a resampled or padded copy of img is stored in.
func family(img image.Image) Mode {
	switch m := ModeOf(img); m {
	case ModeRGB, ModeRGBA, ModeGray:
		return m
	case ModeGrayAlpha:
		return ModeRGBA
	case ModePalette:
		if paletteHasTransparency(img.(*image.Paletted)) {
			return ModeRGBA
		}
		return ModeRGB
	default:
		if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
			return ModeRGBA
		}
		return ModeRGB
	}
}

func newCanvas(m Mode, r image.Rectangle) draw.Image {
	switch m {
	case ModeGray:
		return image.NewGray(r)
	case ModeRGBA:
		return image.NewNRGBA(r)
	default:
		return image.NewRGBA(r)
	}
}

func fillWhite(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
}

// flatten composites img over opaque white and returns an RGB image.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	fillWhite(dst)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// toRGB converts img to RGB, ignoring any alpha.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func expandPalette(p *image.Paletted) *image.NRGBA {
	b := p.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), p, b.Min, draw.Src)
	return dst
}
