package sheet

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoSuchSheet is returned when a sheet index is out of range.
var ErrNoSuchSheet = errors.New("no such sheet")

// Session holds one decoded workbook while the user edits it: switching
// sheets, deleting rows, and paging through the active sheet. Validation
// errors are whatever Process captured at decode time; edits never
// re-trigger validation, so a sheet's error list can go stale by design.
type Session struct {
	ID string

	mu       sync.Mutex
	sheets   []Sheet
	active   int
	pageSize int
	touched  time.Time
}

// SheetSummary describes one sheet for listing purposes.
type SheetSummary struct {
	Name       string `json:"name"`
	RowCount   int    `json:"rowCount"`
	ErrorCount int    `json:"errorCount"`
}

// PageView is one page of the active sheet's rows.
type PageView struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	TotalRows  int   `json:"totalRows"`
	TotalPages int   `json:"totalPages"`
}

// Sheets returns a summary of every sheet in the workbook.
func (s *Session) Sheets() []SheetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SheetSummary, len(s.sheets))
	for i, sh := range s.sheets {
		out[i] = SheetSummary{
			Name:       sh.Name,
			RowCount:   len(sh.Rows),
			ErrorCount: len(sh.Errors),
		}
	}
	return out
}

// ActiveIndex returns the index of the currently active sheet.
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SelectSheet switches the active sheet. No validation runs.
func (s *Session) SelectSheet(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.sheets) {
		return ErrNoSuchSheet
	}
	s.active = i
	return nil
}

// DeleteRow removes the row at the given 0-based position from the
// active sheet. An out-of-range position is a no-op; the return value
// reports whether a row was actually removed. The sheet's error list is
// left as captured at decode time.
func (s *Session) DeleteRow(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := &s.sheets[s.active]
	if pos < 0 || pos >= len(sh.Rows) {
		return false
	}
	sh.Rows = append(sh.Rows[:pos], sh.Rows[pos+1:]...)
	return true
}

// Page returns the requested page of the active sheet's current rows,
// clamped to the available length. Pages are 1-based; a page past the
// end yields an empty row set.
func (s *Session) Page(page int) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.sheets[s.active].Rows
	if page < 1 {
		page = 1
	}

	total := len(rows)
	start := (page - 1) * s.pageSize
	end := page * s.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	view := PageView{
		Rows:       append([]Row(nil), rows[start:end]...),
		Page:       page,
		TotalRows:  total,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
	}
	if view.Rows == nil {
		view.Rows = []Row{}
	}
	return view
}

// ActiveSheet returns the active sheet's name and a copy of its current
// rows, ready for submission to the import service.
func (s *Session) ActiveSheet() (string, []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := s.sheets[s.active]
	rows := make([]Row, len(sh.Rows))
	copy(rows, sh.Rows)
	return sh.Name, rows
}

// FirstErrors returns the decode-time error list of the first sheet that
// failed validation, or nil when every sheet was clean.
func (s *Session) FirstErrors() []ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := Workbook{Sheets: s.sheets}
	return wb.FirstErrors()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Manager owns all live edit sessions. Sessions are addressed by UUID
// and expire after sitting idle for the configured TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	pageSize int
}

// NewManager creates a session manager and starts its expiry sweep.
func NewManager(ttl time.Duration, pageSize int) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		pageSize: pageSize,
	}
	go m.sweep()
	return m
}

// Create registers a new session for a processed workbook and returns it.
// Sheet 0 starts active, matching the processor's selection.
func (m *Manager) Create(wb *Workbook) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		sheets:   wb.Sheets,
		pageSize: m.pageSize,
		touched:  time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get looks up a session by ID and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		s.touch()
	}
	return s, ok
}

// Delete discards a session. Unknown IDs are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sweep removes sessions idle past the TTL, once a minute.
func (m *Manager) sweep() {
	for {
		time.Sleep(time.Minute)
		cutoff := time.Now().Add(-m.ttl)

		m.mu.Lock()
		for id, s := range m.sessions {
			if s.idleSince().Before(cutoff) {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
