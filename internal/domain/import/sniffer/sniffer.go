// Package sniffer detects the structure of uploaded import payloads: whether
// they are JSON or delimited text, and for delimited text which delimiter the
// header row uses.
package sniffer

import (
	"bytes"
	"errors"
	"strings"
)

// Format identifies the payload structure of an import file.
type Format string

const (
	FormatJSON      Format = "json"
	FormatDelimited Format = "delimited"
	FormatXLSX      Format = "xlsx"
)

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrInvalidDelimiter = errors.New("could not detect valid delimiter")
)

// xlsxMagic is the ZIP local-file-header signature; .xlsx files are ZIP
// containers.
var xlsxMagic = []byte{'P', 'K', 0x03, 0x04}

// DetectFormat sniffs the payload format from its leading bytes. A declared
// file extension, when present, wins over content sniffing.
func DetectFormat(data []byte, filename string) (Format, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(strings.ToLower(filename), ".csv"),
		strings.HasSuffix(strings.ToLower(filename), ".tsv"),
		strings.HasSuffix(strings.ToLower(filename), ".txt"):
		return FormatDelimited, nil
	}

	if bytes.HasPrefix(data, xlsxMagic) {
		return FormatXLSX, nil
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON, nil
	}

	return FormatDelimited, nil
}

// DetectDelimiter inspects the header line of a delimited payload and returns
// the most frequent candidate delimiter.
func DetectDelimiter(data []byte) (rune, error) {
	line := headerLine(data)
	if line == "" {
		return 0, ErrEmptyFile
	}

	delimiters := []rune{';', '\t', ',', '|'}
	best := rune(0)
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(line, string(d))
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	if best == 0 {
		return 0, ErrInvalidDelimiter
	}
	return best, nil
}

func headerLine(data []byte) string {
	s := strings.TrimPrefix(string(data), "\uFEFF")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(strings.TrimRight(s, "\r"))
}
