// Package sheet implements the spreadsheet side of the import pipeline:
// decoding workbook bytes into header-keyed rows, validating rows against
// the business rules, and holding decoded workbooks in edit sessions.
package sheet

import (
	"fmt"
	"strings"
	"time"
)

// Row is a single record candidate, keyed by column header.
// Cell values are float64 for numeric cells and string otherwise;
// empty cells have no key at all.
type Row map[string]any

// Column headers the validation rules care about. Any other columns
// pass through untouched.
const (
	ColName     = "Name"
	ColAmount   = "Amount"
	ColDate     = "Date"
	ColVerified = "Verified"
)

// Truthy reports whether a cell value is "present" in the sense the
// validation rules use: nil, empty string, zero number, and false all
// count as absent. This deliberately mirrors loose truthiness so the
// client-side and server-side checks agree on edge cases like 0 amounts.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// String renders a cell value for persistence. Numeric cells drop a
// trailing ".0" so a numeric Name column round-trips cleanly.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%g", x), ".0")
	default:
		return fmt.Sprint(x)
	}
}

// dateLayouts are the date formats accepted for the Date column,
// most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// excelEpoch is day 0 of the 1900 date system (accounting for the
// spurious 1900 leap day Excel inherited from Lotus).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate interprets a cell value as a calendar date. Numeric values
// are treated as Excel 1900-system serials; strings are tried against
// the accepted layouts. Returns false when the value is not date-like.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		if x <= 0 {
			return time.Time{}, false
		}
		return excelEpoch.Add(time.Duration(x * 24 * float64(time.Hour))), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// SameMonth reports whether two dates fall in the same calendar month
// of the same year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
