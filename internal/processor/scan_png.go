package processor

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

type PngAnalysis struct {
	TextKeys []string
	HasTime  bool
	HasICC   bool
}

func scanPNGMetadata(r io.Reader) (PngAnalysis, error) {
	analysis := PngAnalysis{}
	br := bufio.NewReader(r)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return analysis, err
	}
	if !hasPrefix(sig, pngSignature) {
		return analysis, errors.New("invalid PNG signature")
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return analysis, nil
			}
			return analysis, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return analysis, err
		}

		chunkName := string(chunkType)

		switch chunkName {
		case "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return analysis, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return analysis, err
			}
			if key := extractPNGTextKey(data); key != "" {
				analysis.TextKeys = append(analysis.TextKeys, key)
			}
			continue
		case "tIME":
			analysis.HasTime = true
		case "iCCP":
			analysis.HasICC = true
		case "IEND":
			return analysis, nil
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return analysis, err
		}
	}
}

func extractPNGTextKey(data []byte) string {
	for i, v := range data {
		if v == 0 {
			return string(data[:i])
		}
	}
	return ""
}
