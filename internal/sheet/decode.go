package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrDecode indicates the uploaded bytes are not a readable spreadsheet.
var ErrDecode = errors.New("not a valid spreadsheet")

// Sheet is one tab of an uploaded workbook. Errors are filled in by
// Process and are never recomputed after decode.
type Sheet struct {
	Name   string
	Rows   []Row
	Errors []ValidationError
}

// Workbook is the decoded form of an uploaded spreadsheet, sheets in
// workbook order.
type Workbook struct {
	Sheets []Sheet
}

// Decode turns raw spreadsheet bytes into an ordered sequence of sheets.
// The first row of each tab is treated as the column headers; every
// following row becomes a Row keyed by those headers. Empty cells produce
// no key, fully blank rows are dropped, and numeric-looking cells decode
// as float64.
//
// Size limits are the caller's concern; Decode reads whatever it is given.
func Decode(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", ErrDecode, name, err)
		}
		wb.Sheets = append(wb.Sheets, decodeSheet(name, rows))
	}

	return wb, nil
}

// decodeSheet maps raw cell rows to header-keyed Row objects.
func decodeSheet(name string, raw [][]string) Sheet {
	sh := Sheet{Name: name}
	if len(raw) == 0 {
		return sh
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(h)
	}

	for _, cells := range raw[1:] {
		if isBlankRow(cells) {
			continue
		}
		row := make(Row, len(header))
		for i, key := range header {
			if key == "" || i >= len(cells) {
				continue
			}
			cell := strings.TrimSpace(cells[i])
			if cell == "" {
				continue
			}
			row[key] = coerceCell(cell)
		}
		if len(row) > 0 {
			sh.Rows = append(sh.Rows, row)
		}
	}

	return sh
}

// coerceCell converts a formatted cell into a typed value: numbers become
// float64 so the amount rule sees them, everything else stays a string.
func coerceCell(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
