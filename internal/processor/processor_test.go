package processor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imgsquare/internal/transform"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 0xff})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, name, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img, name
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func options(format transform.Format, overwrite bool) Options {
	return Options{
		Transform: transform.Config{MaxDimension: 1000, Format: format, Square: transform.SquareAuto},
		Overwrite: overwrite,
	}
}

func TestRunConvertsInPlaceAndRemovesOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, src, 2000, 1000)

	summary, err := Run(context.Background(), dir, options(transform.FormatPNG, true), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 1 || summary.Processed != 1 || len(summary.Failures) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	out := filepath.Join(dir, "photo.png")
	img, name := decodeFile(t, out)
	if name != "png" {
		t.Fatalf("expected png output, got %s", name)
	}
	if b := img.Bounds(); b.Dx() != 1000 || b.Dy() != 1000 {
		t.Fatalf("expected 1000x1000, got %dx%d", b.Dx(), b.Dy())
	}
	if exists(src) {
		t.Fatalf("original jpg should be removed after conversion")
	}
}

func TestRunEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	calls := 0
	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, true), func(Progress) { calls++ })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !summary.NothingToDo() || summary.Processed != 0 || len(summary.Failures) != 0 {
		t.Fatalf("expected nothing to do, got %+v", summary)
	}
	if calls != 0 {
		t.Fatalf("expected no progress calls, got %d", calls)
	}
}

func TestRunRecordsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("this is not a png at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, true), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.NothingToDo() {
		t.Fatalf("a failed run must not look like an empty folder")
	}
	if summary.Processed != 0 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Failures[0].File != "bad.png" || summary.Failures[0].Reason == "" {
		t.Fatalf("unexpected failure: %+v", summary.Failures[0])
	}
	if !exists(filepath.Join(dir, "bad.png")) {
		t.Fatalf("failed source must be left alone")
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte{0xff, 0xd8, 0xff, 0x00}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeJPEG(t, filepath.Join(dir, "good.jpg"), 50, 40)

	var seen []Progress
	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, true), func(p Progress) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(seen) != 2 {
		t.Fatalf("expected a progress call per file, got %d", len(seen))
	}
	for i, p := range seen {
		if p.Index != i+1 || p.Total != 2 {
			t.Fatalf("unexpected progress %d: %+v", i, p)
		}
		if p.Task.Outcome == Pending {
			t.Fatalf("progress must carry a settled outcome")
		}
	}
}

func TestRunRefusesToReplaceAnotherOriginal(t *testing.T) {
	for _, overwrite := range []bool{true, false} {
		dir := t.TempDir()
		writeJPEG(t, filepath.Join(dir, "a.jpg"), 50, 50)
		writePNG(t, filepath.Join(dir, "a.png"), image.NewRGBA(image.Rect(0, 0, 20, 20)))

		var tasks []FileTask
		summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, overwrite), func(p Progress) {
			tasks = append(tasks, p.Task)
		})
		if err != nil {
			t.Fatalf("overwrite=%v: run: %v", overwrite, err)
		}
		if summary.Processed != 1 || len(summary.Failures) != 1 || summary.Failures[0].File != "a.png" {
			t.Fatalf("overwrite=%v: unexpected summary: %+v", overwrite, summary)
		}
		var taken *OutputTakenError
		if !errors.As(tasks[1].Err, &taken) {
			t.Fatalf("overwrite=%v: expected OutputTakenError, got %v", overwrite, tasks[1].Err)
		}

		outDir := dir
		if !overwrite {
			outDir = filepath.Join(dir, OutputDirName)
		}
		img, _ := decodeFile(t, filepath.Join(outDir, "a.jpg"))
		if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
			t.Fatalf("overwrite=%v: a.jpg replaced by the other image: %v", overwrite, b)
		}
		if !exists(filepath.Join(dir, "a.png")) {
			t.Fatalf("overwrite=%v: a.png must be kept when it was not converted", overwrite)
		}
	}
}

func TestRunRefusesExistingTargetInPlace(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), image.NewRGBA(image.Rect(0, 0, 20, 20)))
	// A directory is never listed, yet it occupies b.png's target path.
	if err := os.Mkdir(filepath.Join(dir, "b.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, true), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 1 || summary.Processed != 0 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !exists(filepath.Join(dir, "b.png")) {
		t.Fatalf("b.png must be kept")
	}
}

func TestRunRecordsEncodeErrorWhenOutputDirIsAFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, OutputDirName), []byte("not a folder"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeJPEG(t, filepath.Join(dir, "one.jpg"), 40, 30)
	writeJPEG(t, filepath.Join(dir, "two.jpg"), 30, 40)

	var tasks []FileTask
	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, false), func(p Progress) {
		tasks = append(tasks, p.Task)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 2 || summary.Processed != 0 || len(summary.Failures) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, task := range tasks {
		var encodeErr *EncodeError
		if task.Outcome != Failed || !errors.As(task.Err, &encodeErr) {
			t.Fatalf("expected EncodeError for %s, got %v", task.Source, task.Err)
		}
		if !exists(task.Source) {
			t.Fatalf("%s must be kept", task.Source)
		}
	}
}

func TestRunKeepsConvertedFileWhenRemoveFails(t *testing.T) {
	orig := removeFile
	removeFile = func(string) error { return os.ErrPermission }
	t.Cleanup(func() { removeFile = orig })

	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, src, 60, 60)

	var tasks []FileTask
	summary, err := Run(context.Background(), dir, options(transform.FormatPNG, true), func(p Progress) {
		tasks = append(tasks, p.Task)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || len(summary.Failures) != 0 {
		t.Fatalf("a failed delete must not fail the file: %+v", summary)
	}
	var deleteErr *DeleteError
	if tasks[0].Outcome != Success || !errors.As(tasks[0].Warning, &deleteErr) || !errors.Is(tasks[0].Warning, os.ErrPermission) {
		t.Fatalf("expected DeleteError warning, got %+v", tasks[0])
	}
	if !exists(src) || !exists(filepath.Join(dir, "photo.png")) {
		t.Fatalf("both the original and the new file should exist")
	}
}

func TestRunKeepsOriginalsInSubfolder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.jpg")
	writeJPEG(t, src, 300, 100)

	summary, err := Run(context.Background(), dir, options(transform.FormatJPEG, false), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	out := filepath.Join(dir, OutputDirName, "wide.jpg")
	img, _ := decodeFile(t, out)
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("expected 300x300, got %dx%d", b.Dx(), b.Dy())
	}
	if !exists(src) {
		t.Fatalf("original must be kept when not overwriting")
	}

	// A second run ignores the output subfolder.
	again, err := Run(context.Background(), dir, options(transform.FormatJPEG, false), nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Total != 1 {
		t.Fatalf("expected the subfolder to be skipped, got total %d", again.Total)
	}
}

func TestRunOverwriteSameFormatKeepsPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Logo.PNG")
	writePNG(t, src, image.NewNRGBA(image.Rect(0, 0, 20, 10)))

	if _, err := Run(context.Background(), dir, options(transform.FormatPNG, true), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "Logo.PNG" {
		t.Fatalf("expected only Logo.PNG, got %v", entries)
	}
	img, _ := decodeFile(t, src)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("expected 20x20, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRunTransparentPNGToJPEG(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: uint8(x * 25)})
		}
	}
	writePNG(t, filepath.Join(dir, "clear.png"), src)

	if _, err := Run(context.Background(), dir, options(transform.FormatJPEG, true), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	img, name := decodeFile(t, filepath.Join(dir, "clear.jpg"))
	if name != "jpeg" {
		t.Fatalf("expected jpeg, got %s", name)
	}
	if mode := transform.ModeOf(img); mode != transform.ModeRGB {
		t.Fatalf("expected RGB jpeg, got %s", mode)
	}
	if exists(filepath.Join(dir, "clear.png")) {
		t.Fatalf("original png should be removed")
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"), 20, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, dir, options(transform.FormatJPEG, true), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Processed != 0 || summary.Total != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunRejectsMissingDir(t *testing.T) {
	if _, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), options(transform.FormatJPEG, true), nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestListImagesFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.JPG", "b.jpeg", "c.png", "d.WebP", "e.gif", "f.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := ListImages(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := map[string]bool{}
	for _, f := range files {
		got[filepath.Base(f)] = true
	}
	if len(got) != 4 || !got["a.JPG"] || !got["b.jpeg"] || !got["c.png"] || !got["d.WebP"] {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestOutputPath(t *testing.T) {
	dir := filepath.Join("srv", "pics")
	tests := []struct {
		name      string
		src       string
		format    transform.Format
		overwrite bool
		want      string
	}{
		{"same format in place", "a.jpg", transform.FormatJPEG, true, filepath.Join(dir, "a.jpg")},
		{"jpeg extension kept", "a.jpeg", transform.FormatJPEG, true, filepath.Join(dir, "a.jpeg")},
		{"format change in place", "a.jpg", transform.FormatPNG, true, filepath.Join(dir, "a.png")},
		{"webp in place", "a.png", transform.FormatWEBP, true, filepath.Join(dir, "a.webp")},
		{"subfolder same format", "a.png", transform.FormatPNG, false, filepath.Join(dir, OutputDirName, "a.png")},
		{"subfolder format change", "a.webp", transform.FormatJPEG, false, filepath.Join(dir, OutputDirName, "a.jpg")},
		{"dotted base name", "my.photo.png", transform.FormatJPEG, true, filepath.Join(dir, "my.photo.jpg")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := OutputPath(filepath.Join(dir, tc.src), tc.format, tc.overwrite)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestErrorKindsUnwrap(t *testing.T) {
	cause := os.ErrPermission
	var deleteErr *DeleteError
	if err := error(&DeleteError{Path: "a.jpg", Err: cause}); !errors.As(err, &deleteErr) || !errors.Is(err, os.ErrPermission) {
		t.Fatalf("DeleteError should unwrap to its cause")
	}
	var encodeErr *EncodeError
	if err := error(&EncodeError{Path: "a.jpg", Err: cause}); !errors.As(err, &encodeErr) || !errors.Is(err, os.ErrPermission) {
		t.Fatalf("EncodeError should unwrap to its cause")
	}
}
