package sheet

import "time"

// UnassignedRow is the row index on a ValidationError that has not yet
// been attributed to a concrete row. Process replaces it with the
// 1-based position within the sheet.
const UnassignedRow = -1

// Validation rule descriptions, matched exactly by the client UI.
const (
	MsgRequiredFields = "Name, Amount, and Date are mandatory"
	MsgCurrentMonth   = "Date must be within the current month"
	MsgPositiveAmount = "Amount must be greater than zero"
)

// ValidationError is a single rule failure for one row.
type ValidationError struct {
	Row         int    `json:"row"`
	Description string `json:"description"`
}

// Validate checks one row against the business rules and returns every
// failure. All rules are evaluated independently; there is no
// short-circuiting, so a row missing its Date still reports the
// current-month failure alongside the required-fields one.
//
// The reference date is explicit so client-side and server-side callers
// each pass their own clock and tests stay deterministic.
//
// Note the positive-amount rule only fires for numeric Amount values.
// A non-numeric, non-empty Amount slips past it here and is rejected by
// the import service instead.
func Validate(row Row, ref time.Time) []ValidationError {
	var errs []ValidationError

	if !Truthy(row[ColName]) || !Truthy(row[ColAmount]) || !Truthy(row[ColDate]) {
		errs = append(errs, ValidationError{Row: UnassignedRow, Description: MsgRequiredFields})
	}

	if d, ok := ParseDate(row[ColDate]); !ok || !SameMonth(d, ref) {
		errs = append(errs, ValidationError{Row: UnassignedRow, Description: MsgCurrentMonth})
	}

	if amt, ok := row[ColAmount].(float64); ok && amt <= 0 {
		errs = append(errs, ValidationError{Row: UnassignedRow, Description: MsgPositiveAmount})
	}

	return errs
}
