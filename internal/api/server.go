// Package api serves the local REST API: conversations, analysis,
// sentiment history and the wellbeing views, plus a transcript import
// endpoint. It reuses the same storage and import pipeline as the CLI.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

type Server struct {
	store    *storage.Store
	importer *importer.Importer
	userName string
	router   *http.ServeMux
}

func NewServer(store *storage.Store, imp *importer.Importer, userName string) *Server {
	s := &Server{
		store:    store,
		importer: imp,
		userName: userName,
		router:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /api/health", withLogging(withJSON(s.handleHealth)))

	s.router.HandleFunc("GET /api/conversations", withLogging(withCORS(withJSON(s.handleListConversations))))
	s.router.HandleFunc("GET /api/conversations/{id}", withLogging(withCORS(withJSON(s.handleGetConversation))))
	s.router.HandleFunc("DELETE /api/conversations/{id}", withLogging(withCORS(withJSON(s.handleDeleteConversation))))
	s.router.HandleFunc("GET /api/conversations/{id}/analysis", withLogging(withCORS(withJSON(s.handleAnalysis))))

	s.router.HandleFunc("GET /api/history", withLogging(withCORS(withJSON(s.handleHistory))))
	s.router.HandleFunc("GET /api/summary", withLogging(withCORS(withJSON(s.handleSummary))))
	s.router.HandleFunc("GET /api/recommendations", withLogging(withCORS(withJSON(s.handleRecommendations))))
	s.router.HandleFunc("GET /api/dashboard", withLogging(withCORS(withJSON(s.handleDashboard))))
	s.router.HandleFunc("GET /api/trends", withLogging(withCORS(withJSON(s.handleTrends))))

	s.router.HandleFunc("POST /api/import", withLogging(withCORS(withJSON(s.handleImport))))
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until SIGINT, then drains in-flight requests.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server shutdown complete")
	return nil
}

// userID scopes reads the same way the CLI does.
func (s *Server) userID() string {
	if s.userName == "" {
		return models.DefaultUserID
	}
	return s.userName
}
