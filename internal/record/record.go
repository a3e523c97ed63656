// Package record defines the persisted Record model and its stores.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Verified values. Anything else is rejected at insert time.
const (
	VerifiedYes = "Yes"
	VerifiedNo  = "No"
)

// ErrInvalid wraps all record validation failures.
var ErrInvalid = errors.New("invalid record")

// Record is one imported row. Records are created one at a time by the
// import service and never updated or deleted afterwards.
type Record struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Verified   string          `json:"verified"`
	SheetName  string          `json:"sheetName"`
	ImportedAt time.Time       `json:"importedAt"`
}

// Normalize applies the schema defaults: the name is trimmed and an
// unset verified flag becomes "No".
func (r *Record) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Verified == "" {
		r.Verified = VerifiedNo
	}
}

// Validate enforces the schema constraints. Stores call this before
// persisting so both backends reject the same records.
func (r *Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be non-negative", ErrInvalid)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}
	if r.Verified != VerifiedYes && r.Verified != VerifiedNo {
		return fmt.Errorf("%w: verified must be %q or %q", ErrInvalid, VerifiedYes, VerifiedNo)
	}
	if r.SheetName == "" {
		return fmt.Errorf("%w: sheet name is required", ErrInvalid)
	}
	return nil
}
