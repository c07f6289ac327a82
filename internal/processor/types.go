package processor

import (
	"go.uber.org/zap"

	"imgsquare/internal/transform"
)

// OutputDirName is the subfolder that receives results when originals are kept.
const OutputDirName = "resized_images_square"

// JPEGQuality is the quality used for every JPEG written.
const JPEGQuality = 95

// WEBPQuality is the lossy quality used for every WEBP written.
const WEBPQuality = 80

// SupportedExts are the lower-cased extensions picked up from a folder.
var SupportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Options struct {
	Transform transform.Config
	Overwrite bool
	Logger    *zap.SugaredLogger
}

type Outcome int

const (
	Pending Outcome = iota
	Success
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// FileTask tracks one discovered file through a run.
type FileTask struct {
	Source  string
	Output  string
	Outcome Outcome
	// Err is set when Outcome is Failed.
	Err error
	// Warning holds a non-fatal problem, such as an original that could not
	// be removed after conversion.
	Warning error
}

type Failure struct {
	File   string
	Reason string
}

type Summary struct {
	Total     int
	Processed int
	Failures  []Failure
}

// NothingToDo reports a folder without supported images, as opposed to a run
// where every file failed.
func (s Summary) NothingToDo() bool {
	return s.Total == 0
}

// Progress is sent after each file. Index is 1-based.
type Progress struct {
	Index int
	Total int
	Task  FileTask
}

// ProgressFunc is called synchronously from Run.
type ProgressFunc func(Progress)
