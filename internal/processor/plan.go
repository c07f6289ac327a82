package processor

import (
	"context"
	"io"
	"os"
	"strings"

	"imgsquare/internal/transform"
	"imgsquare/pkg/imgutil"
)

// PlanEntry describes what Run would do with one file.
type PlanEntry struct {
	Source    string
	Output    string
	Kind      imgutil.Kind
	Width     int
	Height    int
	OutWidth  int
	OutHeight int
	Strategy  transform.SquareMode
	// Dropped lists metadata blocks that re-encoding does not carry over.
	Dropped []string
	Err     error
}

// Plan inspects the same files Run would touch, reading headers only. Nothing
// is written.
func Plan(ctx context.Context, dir string, opts Options) ([]PlanEntry, error) {
	files, err := ListImages(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]PlanEntry, 0, len(files))
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		entries = append(entries, planFile(src, opts))
	}
	return entries, nil
}

func planFile(src string, opts Options) PlanEntry {
	entry := PlanEntry{
		Source: src,
		Output: OutputPath(src, opts.Transform.Format, opts.Overwrite),
	}

	file, err := os.Open(src)
	if err != nil {
		entry.Err = err
		return entry
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Kind = kind

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		entry.Err = err
		return entry
	}
	cfg, _, err := transform.DecodeConfig(file)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Width, entry.Height = cfg.Width, cfg.Height

	w, h := transform.ScaledSize(cfg.Width, cfg.Height, opts.Transform.MaxDimension)
	entry.Strategy = transform.Strategy(w, h, opts.Transform.Square)
	if entry.Strategy != transform.SquareNone {
		w = max(w, h)
		h = w
	}
	entry.OutWidth, entry.OutHeight = w, h

	dropped, err := inspectMetadata(file, kind)
	if err != nil {
		opts.logger().Debugw("metadata scan failed", "source", src, "error", err)
	}
	entry.Dropped = dropped
	return entry
}

// inspectMetadata collects what the container carries besides pixels. Partial
// results are returned alongside a scan error.
func inspectMetadata(rs io.ReadSeeker, kind imgutil.Kind) ([]string, error) {
	var dropped []string

	analysis, exifErr := analyzeExif(rs)
	if line := analysis.describe(); line != "" {
		dropped = append(dropped, line)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return dropped, err
	}

	dropped, err := inspectContainer(rs, kind, analysis, dropped)
	if err == nil {
		err = exifErr
	}
	return dropped, err
}

func inspectContainer(r io.Reader, kind imgutil.Kind, analysis ExifAnalysis, dropped []string) ([]string, error) {
	switch kind {
	case imgutil.KindJPEG:
		segments, err := scanJPEGSegments(r)
		if segments.HasXMP {
			dropped = append(dropped, "XMP")
		}
		if segments.HasIPTC {
			dropped = append(dropped, "IPTC")
		}
		if segments.HasICC {
			dropped = append(dropped, "ICC profile")
		}
		return dropped, err
	case imgutil.KindPNG:
		chunks, err := scanPNGMetadata(r)
		if len(chunks.TextKeys) > 0 {
			dropped = append(dropped, "text: "+strings.Join(chunks.TextKeys, ", "))
		}
		if chunks.HasTime {
			dropped = append(dropped, "modification time")
		}
		if chunks.HasICC {
			dropped = append(dropped, "ICC profile")
		}
		return dropped, err
	case imgutil.KindWEBP:
		chunks, err := scanWEBPChunks(r)
		if chunks.HasExif && analysis.TagCount == 0 {
			dropped = append(dropped, "EXIF")
		}
		if chunks.HasXMP {
			dropped = append(dropped, "XMP")
		}
		if chunks.HasICC {
			dropped = append(dropped, "ICC profile")
		}
		return dropped, err
	default:
		return dropped, nil
	}
}
