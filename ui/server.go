package ui

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"edadash/internal/charts"
	"edadash/internal/dashboard"
	"edadash/internal/session"

	"github.com/gin-gonic/gin"
)

// Server is the web front end of the dashboard
type Server struct {
	router         *gin.Engine
	templates      *template.Template
	files          fs.FS
	store          *session.Store
	dashboard      *dashboard.Service
	maxUploadBytes int64
}

// NewServer parses the page templates found under ui/templates in files and
// sets up middleware and routes. Static assets are served from ui/static.
func NewServer(files fs.FS, store *session.Store, svc *dashboard.Service, maxUploadMB int64) (*Server, error) {
	s := &Server{
		router:         gin.New(),
		files:          files,
		store:          store,
		dashboard:      svc,
		maxUploadBytes: maxUploadMB << 20,
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"figure": func(f charts.Figure) template.URL {
			return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(f.SVG))
		},
		"join":  strings.Join,
		"lower": strings.ToLower,
	}

	templatesFS, err := fs.Sub(s.files, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html", "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	log.Printf("[TemplateInit] Parsed templates: %s", templates.DefinedTemplates())
	s.templates = templates
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.POST("/dataset/format", s.handleSelectFormat)
	pages.POST("/dataset/upload", s.handleUpload)
	pages.POST("/dataset/example", s.handleToggleExample)
	pages.POST("/visuals", s.handleSelectVisuals)
	pages.POST("/options", s.handleSetOptions)
	pages.POST("/chat", s.handleChat)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Starting EDA dashboard on http://%s", addr)
	return s.router.Run(addr)
}
