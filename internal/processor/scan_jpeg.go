package processor

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

var (
	jpegExifHeader = []byte("Exif\x00\x00")
	jpegXmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegPhotoshop  = []byte("Photoshop 3.0\x00")
	jpegICCHeader  = []byte("ICC_PROFILE\x00")
)

type JpegAnalysis struct {
	HasXMP  bool
	HasICC  bool
	HasIPTC bool
}

// scanJPEGSegments walks the marker segments up to the first scan and records
// the metadata blocks the JPEG encoder will not write back.
func scanJPEGSegments(r io.Reader) (JpegAnalysis, error) {
	analysis := JpegAnalysis{}
	br := bufio.NewReader(r)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return analysis, err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return analysis, fmt.Errorf("invalid JPEG SOI")
	}

	for {
		markerPrefix, err := br.ReadByte()
		if err != nil {
			return analysis, err
		}
		for markerPrefix != 0xff {
			markerPrefix, err = br.ReadByte()
			if err != nil {
				return analysis, err
			}
		}

		marker, err := br.ReadByte()
		if err != nil {
			return analysis, err
		}
		for marker == 0xff {
			marker, err = br.ReadByte()
			if err != nil {
				return analysis, err
			}
		}

		if marker == 0xd9 || marker == 0xda { // EOI, SOS
			return analysis, nil
		}
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return analysis, err
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return analysis, fmt.Errorf("invalid JPEG segment length")
		}
		payloadLen := segLen - 2

		if marker != 0xe1 && marker != 0xe2 && marker != 0xed {
			if _, err := io.CopyN(io.Discard, br, int64(payloadLen)); err != nil {
				return analysis, err
			}
			continue
		}

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return analysis, err
		}
		switch {
		case marker == 0xe1 && hasPrefix(payload, jpegXmpHeader):
			analysis.HasXMP = true
		case marker == 0xe2 && hasPrefix(payload, jpegICCHeader):
			analysis.HasICC = true
		case marker == 0xed && hasPrefix(payload, jpegPhotoshop):
			analysis.HasIPTC = true
		}
	}
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
