// Package importer implements the server-side import service: it
// re-validates submitted rows independently of the client and persists
// the ones that pass, keeping per-row accept/skip/error accounting.
package importer

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetdrop/sheetdrop/internal/logging"
	"github.com/sheetdrop/sheetdrop/internal/record"
	"github.com/sheetdrop/sheetdrop/internal/sheet"
)

// ErrBadRequest indicates a structurally invalid import request; no rows
// are processed when it is returned.
var ErrBadRequest = errors.New("invalid request format")

// Request is one import submission: the rows of a single sheet plus the
// sheet's name.
type Request struct {
	Data      []sheet.Row `json:"data"`
	SheetName string      `json:"sheetName"`
}

// Result reports what happened to each submitted row in aggregate.
// Errors carries per-row persistence failures and is omitted from JSON
// when empty.
type Result struct {
	Message       string   `json:"message"`
	ImportedCount int      `json:"importedCount"`
	SkippedCount  int      `json:"skippedCount"`
	Errors        []string `json:"errors,omitempty"`
}

// Service validates and persists submitted rows.
type Service struct {
	store record.Store
	now   func() time.Time
}

// New creates an import service backed by the given store, using the
// wall clock as the reference date source.
func New(store record.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewWithClock creates an import service with an injected clock.
// The reference date for the current-month rule is read from it once
// per request.
func NewWithClock(store record.Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Import processes the request's rows strictly in order. Each row is
// checked independently: rows failing the required-field, current-month,
// or positive-amount rules are skipped silently; rows the store rejects
// are skipped with their error message recorded. Processing never aborts
// mid-batch and nothing is rolled back.
func (s *Service) Import(ctx context.Context, req Request) (*Result, error) {
	if req.Data == nil || req.SheetName == "" {
		return nil, ErrBadRequest
	}

	logger := logging.WithFields(ctx, "sheet", req.SheetName, "rows", len(req.Data))

	ref := s.now()
	result := &Result{Message: "Import completed successfully"}

	for i, row := range req.Data {
		if !sheet.Truthy(row[sheet.ColName]) || !sheet.Truthy(row[sheet.ColAmount]) || !sheet.Truthy(row[sheet.ColDate]) {
			result.SkippedCount++
			continue
		}

		date, ok := sheet.ParseDate(row[sheet.ColDate])
		if !ok || !sheet.SameMonth(date, ref) {
			result.SkippedCount++
			continue
		}

		// Unlike the client-side validator, a non-numeric amount is
		// rejected here outright.
		amount, ok := row[sheet.ColAmount].(float64)
		if !ok || amount <= 0 {
			result.SkippedCount++
			continue
		}

		rec := &record.Record{
			Name:      sheet.String(row[sheet.ColName]),
			Amount:    decimal.NewFromFloat(amount),
			Date:      date,
			SheetName: req.SheetName,
		}
		if sheet.Truthy(row[sheet.ColVerified]) {
			rec.Verified = sheet.String(row[sheet.ColVerified])
		}

		if err := s.store.Insert(ctx, rec); err != nil {
			logger.Warn("row rejected by store", "row", i+1, "error", err)
			result.SkippedCount++
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		result.ImportedCount++
	}

	logger.Info("import completed",
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors),
	)

	return result, nil
}
