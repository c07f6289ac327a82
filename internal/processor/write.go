package processor

import (
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"imgsquare/internal/transform"
)

// writeResult encodes img into a temp file beside destPath and renames it into
// place, so a failed encode never leaves a truncated destination behind.
func writeResult(img image.Image, destPath string, format transform.Format, perm fs.FileMode) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &EncodeError{Path: destPath, Err: err}
	}

	tmpFile, err := os.CreateTemp(destDir, ".imgsquare-*.tmp")
	if err != nil {
		return &EncodeError{Path: destPath, Err: err}
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		return &EncodeError{Path: destPath, Err: err}
	}

	if err := encodeImage(tmpFile, img, format); err != nil {
		_ = tmpFile.Close()
		return &EncodeError{Path: destPath, Err: err}
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return &EncodeError{Path: destPath, Err: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &EncodeError{Path: destPath, Err: err}
	}

	if err := replaceFile(tmpFile.Name(), destPath); err != nil {
		return &EncodeError{Path: destPath, Err: err}
	}
	return nil
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
