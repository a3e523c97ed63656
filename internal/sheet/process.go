package sheet

import "time"

// Process runs the validator over every row of every decoded sheet,
// tagging each failure with its 1-based row position, and selects the
// first sheet as initially active. The workbook's sheets are annotated
// in place.
func Process(wb *Workbook, ref time.Time) *Workbook {
	for si := range wb.Sheets {
		sh := &wb.Sheets[si]
		sh.Errors = nil
		for i, row := range sh.Rows {
			for _, e := range Validate(row, ref) {
				e.Row = i + 1
				sh.Errors = append(sh.Errors, e)
			}
		}
	}
	return wb
}

// FirstErrors returns the error list of the first sheet that failed
// validation, or nil when every sheet is clean. This is the list
// surfaced to the user immediately after upload; errors on later sheets
// are only visible when that sheet is selected.
func (wb *Workbook) FirstErrors() []ValidationError {
	for _, sh := range wb.Sheets {
		if len(sh.Errors) > 0 {
			return sh.Errors
		}
	}
	return nil
}
