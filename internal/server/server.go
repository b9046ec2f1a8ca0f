// Package server exposes the portfolio over HTTP with gin.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/session"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/web"
)

const (
	sweepInterval   = time.Minute
	cleanupInterval = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

// Server wires the portfolio views, storage and routes together.
type Server struct {
	cfg        config.Config
	engine     *gin.Engine
	sessions   *session.Registry
	store      *store.Store
	adminToken string
}

// New builds the server. st may be nil, in which case visitor tracking and
// the admin area are off and contact submissions only reach the log.
func New(cfg config.Config, c *content.Content, st *store.Store) (*Server, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	opts := portfolio.Options{
		ScrollSpy:      cfg.ScrollSpy,
		UnifyEntrances: cfg.UnifyEntrances,
	}
	if st != nil {
		opts.Diagnostics = st
	}

	s := &Server{
		cfg:   cfg,
		store: st,
		sessions: session.NewRegistry(func() *portfolio.View {
			return portfolio.NewView(c, opts)
		}, cfg.SessionTTL),
		adminToken: GenerateToken(),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	if st != nil && cfg.TrackVisitors {
		r.Use(s.visitorTrackingMiddleware())
	}

	r.StaticFS("/static", http.FS(web.Static()))
	if info, err := os.Stat(cfg.ImagesDir); err == nil && info.IsDir() {
		r.Static("/images", cfg.ImagesDir)
	}

	s.setupRoutes(r)
	if st != nil {
		s.setupAdminRoutes(r)
	}
	s.engine = r
	return s, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.sessions.Janitor(ctx, sweepInterval)
	if s.store != nil {
		go s.cleanupLoop(ctx)
	}

	srv := &http.Server{Addr: s.cfg.Addr(), Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", s.cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if _, err := s.store.CleanupVisitors(ctx); err != nil {
			log.Printf("server: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(b)
}
