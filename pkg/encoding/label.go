// Package encoding provides text decoding helpers for labels embedded in mesh files.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Windows1252ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Windows1252ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// FixedLabelToUTF8 converts a fixed-size header field to a display string.
// The field is cut at the first null byte. CAD exporters write these headers
// in whatever code page the host used, so anything that is not valid UTF-8
// is decoded as Windows-1252.
func FixedLabelToUTF8(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return LabelToUTF8(data)
}

// LabelToUTF8 decodes a free-form label and trims surrounding whitespace.
func LabelToUTF8(data []byte) string {
	var s string
	if utf8.Valid(data) {
		s = string(data)
	} else {
		s = Windows1252ToUTF8(data)
	}
	return strings.TrimSpace(s)
}
