// Package server serves a changelog as paginated HTML and JSON.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/masmgr/changelog-go/internal/output"
	"github.com/masmgr/changelog-go/internal/pagination"
)

const shutdownTimeout = 5 * time.Second

// Options configures the server.
type Options struct {
	Addr     string
	Title    string // empty means "<repository> Changelog"
	PageSize int
}

// Server renders pages from a Store. Every request builds its own paginator
// from the current snapshot.
type Server struct {
	store   *Store
	options Options
	html    *output.HTMLPageWriter
	json    *output.JSONPageWriter
	engine  *gin.Engine
}

// New creates a Server and registers its routes.
func New(store *Store, options Options) *Server {
	s := &Server{
		store:   store,
		options: options,
		html:    output.NewHTMLPageWriter(),
		json:    &output.JSONPageWriter{},
	}

	r := gin.New()
	r.Use(RequestLogger(), gin.CustomRecovery(HandlePanics()))
	r.GET("/", s.getPage)
	r.GET("/api/entries", s.getEntries)
	r.GET("/healthz", s.getHealth)
	s.engine = r

	return s
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.options.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.options.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

// requestedPage returns the page in the query string. Missing or malformed
// values mean page 1; out-of-range values are handled by output.NewPage.
func requestedPage(c *gin.Context) int {
	page, ok := pagination.ParsePage(c.Query("page"))
	if !ok {
		return 1
	}
	return page
}

func (s *Server) page(c *gin.Context) *output.Page {
	return output.NewPage(s.store.Current(), s.options.Title, s.options.PageSize, requestedPage(c))
}

func (s *Server) getPage(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.html.Write(&buf, s.page(c), output.Options{Link: output.QueryLink}); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) getEntries(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.json.Write(&buf, s.page(c), output.Options{}); err != nil {
		log.Error().Err(err).Msg("Failed to render entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render entries"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"entries": s.store.Current().Len(),
	})
}
