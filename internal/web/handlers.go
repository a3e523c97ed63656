package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sheetdrop/sheetdrop/internal/importer"
	"github.com/sheetdrop/sheetdrop/internal/logging"
	"github.com/sheetdrop/sheetdrop/internal/record"
	"github.com/sheetdrop/sheetdrop/internal/sheet"
)

// User-facing messages, kept in sync with the browser client.
const (
	msgInvalidRequest = "Invalid request format"
	msgImportFailed   = "Failed to import data"
	msgFetchFailed    = "Error fetching records"
	msgBadFile        = "Error processing file. Please ensure it's a valid Excel file."
	msgUnsupported    = "Only .xlsx and .xls files are supported"
	msgTooLarge       = "File size must be less than 2MB"
	msgNotFound       = "Workbook not found"
)

// multipartSlack is the extra body allowance for multipart boundaries
// and part headers on top of the configured file size limit.
const multipartSlack = 16 << 10

// handleImport accepts `{data, sheetName}` and runs the import service.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	s.runImport(w, r, req)
}

// runImport executes an import request and writes the shared response
// shape used by both import endpoints.
func (s *Server) runImport(w http.ResponseWriter, r *http.Request, req importer.Request) {
	result, err := s.importer.Import(r.Context(), req)
	if err != nil {
		if errors.Is(err, importer.ErrBadRequest) {
			writeMessage(w, r, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		writeServerError(w, r, msgImportFailed, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleListRecords returns a page of persisted records.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	params := record.ListParams{
		SheetName: r.URL.Query().Get("sheetName"),
		Page:      queryInt(r, "page", record.DefaultPage),
		Limit:     queryInt(r, "limit", record.DefaultLimit),
	}

	result, err := s.store.List(r.Context(), params)
	if err != nil {
		writeServerError(w, r, msgFetchFailed, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// workbookResponse summarizes an edit session for the client.
type workbookResponse struct {
	WorkbookID  string                  `json:"workbookId"`
	ActiveSheet int                     `json:"activeSheet"`
	Sheets      []sheet.SheetSummary    `json:"sheets"`
	Errors      []sheet.ValidationError `json:"errors,omitempty"`
}

func workbookView(sess *sheet.Session) workbookResponse {
	return workbookResponse{
		WorkbookID:  sess.ID,
		ActiveSheet: sess.ActiveIndex(),
		Sheets:      sess.Sheets(),
		Errors:      sess.FirstErrors(),
	}
}

// handleCreateWorkbook decodes an uploaded spreadsheet, validates it,
// and opens an edit session. The surfaced error list belongs to the
// first sheet that failed validation.
func (s *Server) handleCreateWorkbook(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	// The limit applies to the file itself (checked against header.Size
	// below); the body cap leaves room for multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartSlack)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeMessage(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		writeMessage(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
	default:
		writeMessage(w, r, http.StatusBadRequest, msgUnsupported)
		return
	}
	if header.Size > maxSize {
		writeMessage(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeServerError(w, r, "failed to read file", err)
		return
	}

	wb, err := sheet.Decode(data)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgBadFile)
		return
	}

	sheet.Process(wb, time.Now())
	sess := s.sessions.Create(wb)

	logging.FromContext(r.Context()).Info("workbook uploaded",
		"workbook_id", sess.ID,
		"file", header.Filename,
		"sheets", len(wb.Sheets),
	)

	writeJSON(w, r, http.StatusCreated, workbookView(sess))
}

type sessionKeyType struct{}

var sessionKey sessionKeyType

// workbookCtx resolves the workbook ID to a live session.
func (s *Server) workbookCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "workbookID")
		sess, ok := s.sessions.Get(id)
		if !ok {
			writeMessage(w, r, http.StatusNotFound, msgNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *sheet.Session {
	return r.Context().Value(sessionKey).(*sheet.Session)
}

func (s *Server) handleGetWorkbook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, workbookView(sessionFrom(r)))
}

func (s *Server) handleDeleteWorkbook(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleRows returns one page of the active sheet's current rows.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	writeJSON(w, r, http.StatusOK, sessionFrom(r).Page(page))
}

// handleSelectSheet switches the session's active sheet.
func (s *Server) handleSelectSheet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if err := sessionFrom(r).SelectSheet(body.Index); err != nil {
		writeMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, workbookView(sessionFrom(r)))
}

// handleDeleteRow removes one row from the active sheet. Out-of-range
// positions are benign no-ops, per ordinary sequence-removal semantics.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid row index")
		return
	}

	sessionFrom(r).DeleteRow(idx)
	w.WriteHeader(http.StatusNoContent)
}

// handleImportWorkbook submits the active sheet's current rows to the
// import service.
func (s *Server) handleImportWorkbook(w http.ResponseWriter, r *http.Request) {
	name, rows := sessionFrom(r).ActiveSheet()
	if rows == nil {
		rows = []sheet.Row{}
	}

	s.runImport(w, r, importer.Request{Data: rows, SheetName: name})
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
