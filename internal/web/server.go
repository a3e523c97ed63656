// Package web provides the HTTP server and JSON handlers for the
// spreadsheet import API.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sheetdrop/sheetdrop/internal/config"
	"github.com/sheetdrop/sheetdrop/internal/importer"
	"github.com/sheetdrop/sheetdrop/internal/record"
	"github.com/sheetdrop/sheetdrop/internal/sheet"
)

// Server is the HTTP server for the import application.
type Server struct {
	cfg      *config.Config
	store    record.Store
	importer *importer.Service
	sessions *sheet.Manager
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, store record.Store, imp *importer.Service, sessions *sheet.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		importer: imp,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Browser client runs on its own origin
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Import and record listing (the client-server boundary)
		r.Post("/import", s.handleImport)
		r.Get("/records", s.handleListRecords)

		// Workbook edit sessions
		r.Route("/workbooks", func(r chi.Router) {
			r.Post("/", s.handleCreateWorkbook)
			r.Route("/{workbookID}", func(r chi.Router) {
				r.Use(s.workbookCtx)
				r.Get("/", s.handleGetWorkbook)
				r.Delete("/", s.handleDeleteWorkbook)
				r.Get("/rows", s.handleRows)
				r.Put("/sheet", s.handleSelectSheet)
				r.Delete("/rows/{index}", s.handleDeleteRow)
				r.Post("/import", s.handleImportWorkbook)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
