// Package dateutils provides the permissive date parsing used by the
// tolerant record parser and the invoice parser.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common layouts found in operator-submitted extracts.
const (
	LayoutISO      = "2006-01-02"
	LayoutISOTime  = "2006-01-02T15:04:05"
	LayoutFull     = "2006-01-02 15:04:05"
	LayoutEuropean = "02.01.2006"
)

// commonLayouts are tried in order before falling back to numeric-part
// interpretation. Day-first layouts come before month-first ones because
// the submitting operators are overwhelmingly day-first locales.
var commonLayouts = []string{
	LayoutISO,
	LayoutISOTime,
	LayoutFull,
	LayoutEuropean,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"2.1.2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// ParseDate parses a date string permissively. It first tries the common
// calendar layouts, then splits the string on "/" or "-" and interprets
// three numeric parts as day/month/year, expanding two-digit years by
// adding 2000.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := strings.Join(strings.Fields(strings.TrimSpace(dateStr)), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range commonLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	if t, err := parseNumericParts(cleaned); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseNumericParts interprets "D/M/Y" or "D-M-Y" with purely numeric
// parts. Years below 100 are expanded by adding 2000.
func parseNumericParts(s string) (time.Time, error) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected three date parts, got %d", len(parts))
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("non-numeric date part %q", p)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date parts out of range: %s", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 31 -> Mar 2); treat that as invalid.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid calendar date: %s", s)
	}
	return t, nil
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(LayoutISO)
}
