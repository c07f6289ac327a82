package transform

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// Decode reads a JPEG, PNG or WEBP image. The returned name is the decoder
// that matched.
func Decode(r io.Reader) (image.Image, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	return img, name, nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(data []byte) (image.Image, string, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeConfig reads only the header of an image.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", &DecodeError{Err: err}
	}
	return cfg, name, nil
}
