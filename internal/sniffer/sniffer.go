// Package sniffer detects the field delimiter and header presence of a
// tabular document from its first line. No fixed schema is assumed; the
// result feeds the column mapper.
package sniffer

import (
	"strconv"
	"strings"

	"costeo/ingesta/internal/ingesterror"
)

// candidates in priority order; ties resolve to the earlier candidate.
var candidates = []rune{',', ';', '\t', '|'}

// Format describes the detected shape of a tabular file.
type Format struct {
	Delimiter rune
	HasHeader bool
	// RawColumns are the first line's cells split on the detected
	// delimiter, untrimmed beyond surrounding whitespace.
	RawColumns []string
}

// Sniff inspects the first line of raw tabular text. Empty input is a
// FormatError, never an inferred format.
func Sniff(firstLine string) (Format, error) {
	line := strings.TrimRight(firstLine, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Format{}, &ingesterror.FormatError{Msg: "empty input, cannot detect tabular format"}
	}

	delimiter := detectDelimiter(line)

	columns := strings.Split(line, string(delimiter))
	for i, c := range columns {
		columns[i] = strings.TrimSpace(c)
	}

	return Format{
		Delimiter:  delimiter,
		HasHeader:  looksLikeHeader(columns),
		RawColumns: columns,
	}, nil
}

// detectDelimiter picks the candidate with the highest occurrence count.
// Ties break by candidate priority order, so a line with one comma and
// one pipe is treated as comma-delimited.
func detectDelimiter(line string) rune {
	best := candidates[0]
	bestCount := -1
	for _, cand := range candidates {
		count := strings.Count(line, string(cand))
		if count > bestCount {
			best = cand
			bestCount = count
		}
	}
	return best
}

// looksLikeHeader treats the line as a header row when every token fails
// to parse as a number.
func looksLikeHeader(columns []string) bool {
	for _, c := range columns {
		if c == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(c, ",", ""), 64); err == nil {
			return false
		}
	}
	return true
}
