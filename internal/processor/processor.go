package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"imgsquare/internal/transform"
	"imgsquare/pkg/imgutil"
)

// Run converts every supported image directly inside dir, one file at a time.
// A failing file is recorded in the summary and the run moves on. progress may
// be nil. Cancelling ctx stops the run between files and returns the partial
// summary together with ctx.Err().
func Run(ctx context.Context, dir string, opts Options, progress ProgressFunc) (Summary, error) {
	summary := Summary{}
	log := opts.logger()

	files, err := ListImages(dir)
	if err != nil {
		return summary, err
	}
	summary.Total = len(files)
	if summary.NothingToDo() {
		log.Infow("no supported images", "dir", dir)
		return summary, nil
	}

	claimed := make(map[string]bool, len(files))
	for i, src := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		task := processFile(src, opts, claimed)
		switch task.Outcome {
		case Success:
			summary.Processed++
			log.Debugw("converted", "source", task.Source, "output", task.Output)
		case Failed:
			summary.Failures = append(summary.Failures, Failure{
				File:   filepath.Base(task.Source),
				Reason: task.Err.Error(),
			})
			log.Warnw("conversion failed", "source", task.Source, "error", task.Err)
		}
		if task.Warning != nil {
			log.Warnw("original kept", "source", task.Source, "error", task.Warning)
		}

		if progress != nil {
			progress(Progress{Index: i + 1, Total: len(files), Task: task})
		}
	}

	return summary, nil
}

// ListImages returns the supported image files directly inside dir in
// directory enumeration order. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !SupportedExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if !isRegular(entry, fullPath) {
			continue
		}
		files = append(files, fullPath)
	}
	return files, nil
}

func isRegular(entry fs.DirEntry, fullPath string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// OutputPath is where the converted src is written. The base name is kept; the
// extension is kept when it already names format and replaced otherwise.
func OutputPath(src string, format transform.Format, overwrite bool) string {
	dir := filepath.Dir(src)
	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)
	if !format.Matches(ext) {
		ext = format.Ext()
	}

	if !overwrite {
		dir = filepath.Join(dir, OutputDirName)
	}
	return filepath.Join(dir, base+ext)
}

// removeFile deletes an original after its replacement is written.
var removeFile = os.Remove

func processFile(src string, opts Options, claimed map[string]bool) FileTask {
	task := FileTask{
		Source: src,
		Output: OutputPath(src, opts.Transform.Format, opts.Overwrite),
	}

	if err := checkOutput(src, task.Output, opts.Overwrite, claimed); err != nil {
		return task.fail(err)
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return task.fail(err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return task.fail(err)
	}

	img, _, err := transform.DecodeBytes(data)
	if err != nil {
		if kind, sniffErr := imgutil.SniffBytes(data); sniffErr != nil || kind == imgutil.KindUnknown {
			err = fmt.Errorf("not a JPEG, PNG or WEBP file: %w", err)
		}
		return task.fail(err)
	}

	out, err := transform.Transform(img, opts.Transform)
	if err != nil {
		return task.fail(err)
	}

	if err := writeResult(out, task.Output, opts.Transform.Format, srcInfo.Mode().Perm()); err != nil {
		return task.fail(err)
	}
	task.Outcome = Success
	claimed[filepath.Clean(task.Output)] = true

	if opts.Overwrite && filepath.Clean(task.Output) != filepath.Clean(src) {
		if err := removeFile(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
			task.Warning = &DeleteError{Path: src, Err: err}
		}
	}

	return task
}

// checkOutput refuses an output path already written earlier in this run or,
// when overwriting with a new extension, one that holds some other original.
func checkOutput(src, output string, overwrite bool, claimed map[string]bool) error {
	output = filepath.Clean(output)
	if claimed[output] {
		return &OutputTakenError{Path: output}
	}
	if !overwrite || output == filepath.Clean(src) {
		return nil
	}
	if _, err := os.Lstat(output); err == nil {
		return &OutputTakenError{Path: output}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (t FileTask) fail(err error) FileTask {
	t.Outcome = Failed
	t.Err = err
	return t
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}
