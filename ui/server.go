package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"bmidash/app"
	"bmidash/internal/session"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

const pageTitle = "Body Mass Index Dashboard"

// Server serves the dashboard page and the download action
type Server struct {
	router    *gin.Engine
	dashboard *app.DashboardService
	sessions  *session.Store
	templates *template.Template
	secure    bool
}

// Options configure the server
type Options struct {
	// SecureCookies marks the session cookie Secure; enable behind TLS
	SecureCookies bool
}

// NewServer creates a new web server instance
func NewServer(dashboard *app.DashboardService, sessions *session.Store, opts Options) (*Server, error) {
	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		sessions:  sessions,
		templates: templates,
		secure:    opts.SecureCookies,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func parseTemplates(files fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"percent": func(part, total int) float64 {
			if total == 0 {
				return 0
			}
			return 100 * float64(part) / float64(total)
		},
		"markdown": renderMarkdown,
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	log.Printf("[TemplateInit] Parsed templates: %s", templates.DefinedTemplates())
	return templates, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
}

// setupRoutes configures the application routes. Only the dashboard routes
// start sessions; liveness checks must not grow the session store.
func (s *Server) setupRoutes() {
	dashboard := s.router.Group("/")
	dashboard.Use(s.withSession())
	dashboard.GET("/", s.handleIndex)
	dashboard.POST("/download", s.handleDownload)

	s.router.GET("/healthz", s.handleHealth)
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting BMI dashboard on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down BMI dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
