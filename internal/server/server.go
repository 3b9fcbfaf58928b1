// Package server exposes the dashboard over HTTP. Each page request is one
// full render cycle: widget state arrives as query parameters, the whole
// pipeline re-runs, and the complete page comes back.
package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/usecase"
)

// PageAssets carries optional page extras resolved at startup.
type PageAssets struct {
	// References is the verbatim content of the references file, if any.
	References string
	// ImagePath is a static image served under /static, if any.
	ImagePath string
	// SourceNote describes the configured data sources for the
	// "show source" affordance.
	SourceNote string
}

// Server wires the render pipeline and raw table sources to gin routes.
type Server struct {
	renderer *usecase.Renderer
	clinical ports.ClinicalSource
	deg      ports.DEGSource
	logger   *slog.Logger
	assets   PageAssets
	imageURL string
	engine   *gin.Engine
}

// New builds the router with middleware, the dashboard page, and the JSON
// table endpoints.
func New(renderer *usecase.Renderer, clinical ports.ClinicalSource, deg ports.DEGSource, assets PageAssets, logger *slog.Logger) *Server {
	s := &Server{
		renderer: renderer,
		clinical: clinical,
		deg:      deg,
		logger:   logger,
		assets:   assets,
	}

	setModeOnce.Do(func() { gin.SetMode(gin.ReleaseMode) })
	engine := gin.New()
	engine.Use(recovery(logger))
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware())
	engine.SetHTMLTemplate(template.Must(template.New("").Parse(dashboardTemplate)))

	if assets.ImagePath != "" {
		s.imageURL = "/static/cohort-image"
		engine.StaticFile(s.imageURL, assets.ImagePath)
	}

	engine.GET("/healthcheck", healthCheckHandler)
	engine.GET("/", s.dashboardHandler)
	engine.GET("/api/clinical", s.clinicalHandler)
	engine.GET("/api/deg", s.degHandler)
	engine.GET("/api/enrichment", s.enrichmentHandler)

	s.engine = engine
	return s
}

var setModeOnce sync.Once

// Handler returns the root http.Handler for serving or testing.
func (s *Server) Handler() http.Handler { return s.engine }

func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
