package processor

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

type WebpAnalysis struct {
	HasExif bool
	HasXMP  bool
	HasICC  bool
}

// scanWEBPChunks walks the RIFF chunks of a WEBP file.
func scanWEBPChunks(r io.Reader) (WebpAnalysis, error) {
	analysis := WebpAnalysis{}
	br := bufio.NewReader(r)

	header := make([]byte, 12)
	if _, err := io.ReadFull(br, header); err != nil {
		return analysis, err
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return analysis, errors.New("invalid WEBP header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(br, chunkHeader); err != nil {
			if err == io.EOF {
				return analysis, nil
			}
			return analysis, err
		}

		switch string(chunkHeader[:4]) {
		case "EXIF":
			analysis.HasExif = true
		case "XMP ":
			analysis.HasXMP = true
		case "ICCP":
			analysis.HasICC = true
		}

		size := int64(binary.LittleEndian.Uint32(chunkHeader[4:]))
		if size%2 == 1 {
			size++
		}
		if _, err := io.CopyN(io.Discard, br, size); err != nil {
			if err == io.EOF {
				return analysis, nil
			}
			return analysis, err
		}
	}
}
