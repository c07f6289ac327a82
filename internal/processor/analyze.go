package processor

import (
	"errors"
	"io"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

type ExifAnalysis struct {
	TagCount     int
	HasGPS       bool
	HasModel     bool
	HasTimestamp bool
}

func analyzeExif(rs io.ReadSeeker) (ExifAnalysis, error) {
	analysis := ExifAnalysis{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return analysis, err
	}

	data, err := io.ReadAll(rs)
	if err != nil {
		return analysis, err
	}

	// Search the whole file for the TIFF header; the container-aware search
	// gives up on JPEGs that carry scan data after APP1.
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errorsIsNoExif(err) {
			return analysis, nil
		}
		return analysis, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return analysis, err
	}

	for _, tag := range tags {
		name := tag.TagName
		analysis.TagCount++

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			analysis.HasGPS = true
		}
		if name == "Model" || name == "Make" {
			analysis.HasModel = true
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			analysis.HasTimestamp = true
		}
	}

	return analysis, nil
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

// describe renders the analysis as a single plan line, or "" without EXIF.
func (a ExifAnalysis) describe() string {
	if a.TagCount == 0 {
		return ""
	}
	var extras []string
	if a.HasGPS {
		extras = append(extras, "GPS")
	}
	if a.HasModel {
		extras = append(extras, "camera")
	}
	if a.HasTimestamp {
		extras = append(extras, "timestamp")
	}
	line := "EXIF (" + strconv.Itoa(a.TagCount) + " tags"
	if len(extras) > 0 {
		line += ": " + strings.Join(extras, ", ")
	}
	return line + ")"
}
