package tabular

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	APIKeyLength = 16

	cellSeparator = "\t"
	rowSeparator  = "\r\n"
)

var ErrInvalidAPIKey = errors.New("api key must be 16 characters")

// DetectTerminator returns the line terminator used by text: the first of
// "\r\n", "\r" or "\n" that occurs, defaulting to "\n".
func DetectTerminator(text string) string {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 {
		return "\n"
	}

	if text[i] == '\n' {
		return "\n"
	}

	if i+1 < len(text) && text[i+1] == '\n' {
		return "\r\n"
	}

	return "\r"
}

// Parse splits tab-delimited text into rows of cells. A single trailing line
// terminator is ignored, and empty text gives an empty matrix.
func Parse(text string) [][]string {
	if text == "" {
		return [][]string{}
	}

	terminator := DetectTerminator(text)
	text = strings.TrimSuffix(text, terminator)

	lines := strings.Split(text, terminator)
	matrix := make([][]string, 0, len(lines))
	for _, line := range lines {
		matrix = append(matrix, strings.Split(line, cellSeparator))
	}

	return matrix
}

// Render joins cells with tabs and rows with CRLF. There is no trailing
// terminator unless the last row is a single empty cell, which would otherwise
// be lost to the terminator Parse ignores.
func Render(matrix [][]string) string {
	var sb strings.Builder

	for i, row := range matrix {
		if i > 0 {
			sb.WriteString(rowSeparator)
		}
		sb.WriteString(strings.Join(row, cellSeparator))
	}

	if n := len(matrix); n > 0 && len(matrix[n-1]) == 1 && matrix[n-1][0] == "" {
		sb.WriteString(rowSeparator)
	}

	return sb.String()
}

// Rectangular reports whether every row has the same number of cells.
func Rectangular(matrix [][]string) bool {
	for _, row := range matrix {
		if len(row) != len(matrix[0]) {
			return false
		}
	}

	return true
}

// ValidateAPIKey only checks the shape of the key; the registry decides if it is valid.
func ValidateAPIKey(key string) error {
	if utf8.RuneCountInString(key) != APIKeyLength {
		return ErrInvalidAPIKey
	}

	return nil
}
