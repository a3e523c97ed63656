package record

import "context"

// Default listing parameters.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListParams filters and paginates a record listing. A zero Page or
// Limit falls back to the defaults; SheetName filters by exact match
// when non-empty.
type ListParams struct {
	SheetName string
	Page      int
	Limit     int
}

// ListResult is one page of records, newest date first.
type ListResult struct {
	Records     []Record `json:"records"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
}

// Store is the durable home of imported records.
type Store interface {
	// Insert persists one record, filling in its ID and import timestamp.
	Insert(ctx context.Context, r *Record) error

	// List returns records sorted by date descending, optionally filtered
	// by sheet name.
	List(ctx context.Context, p ListParams) (*ListResult, error)
}

// clampParams applies listing defaults shared by all store backends.
func clampParams(p ListParams) ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// totalPages is ceil(count/limit); an empty result set has zero pages.
func totalPages(count int64, limit int) int {
	return int((count + int64(limit) - 1) / int64(limit))
}
