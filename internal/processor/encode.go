package processor

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"imgsquare/internal/transform"
)

func encodeImage(w io.Writer, img image.Image, format transform.Format) error {
	bw := bufio.NewWriter(w)

	switch format {
	case transform.FormatJPEG:
		// image/jpeg has no optimized-Huffman switch; quality is the only knob.
		if err := jpeg.Encode(bw, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	case transform.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(bw, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case transform.FormatWEBP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, WEBPQuality)
		if err != nil {
			return fmt.Errorf("webp options: %w", err)
		}
		if err := webp.Encode(bw, toNRGBA(img), options); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	return bw.Flush()
}

// toNRGBA gives the webp encoder a pixel layout it accepts.
func toNRGBA(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
