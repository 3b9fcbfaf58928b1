package server

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/tabular"
	"CohortDashboard/internal/usecase"
)

// page is the template payload: the view model plus startup assets.
type page struct {
	VM         *usecase.ViewModel
	Download   template.URL
	References string
	ImageURL   string
	SourceNote string
}

func (s *Server) dashboardHandler(c *gin.Context) {
	state, err := parseWidgetState(c)
	if err != nil {
		c.String(http.StatusBadRequest, "bad request: %v", err)
		return
	}
	if err := state.Validate(); err != nil {
		c.String(http.StatusBadRequest, "bad request: %v", err)
		return
	}

	vm, err := s.renderer.Render(c.Request.Context(), state)
	if err != nil {
		c.String(statusFor(err), "render failed: %v", err)
		return
	}

	c.HTML(http.StatusOK, "dashboard", page{
		VM: vm,
		// The data: href is built from our own CSV bytes; html/template
		// would otherwise neuter the scheme.
		Download:   template.URL(vm.DownloadHref),
		References: s.assets.References,
		ImageURL:   s.imageURL,
		SourceNote: s.assets.SourceNote,
	})
}

func (s *Server) clinicalHandler(c *gin.Context) {
	t, err := s.clinical.Demographics(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tableJSON(t))
}

func (s *Server) degHandler(c *gin.Context) {
	t, err := s.deg.Results(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tableJSON(t))
}

func (s *Server) enrichmentHandler(c *gin.Context) {
	state, err := parseWidgetState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := state.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vm, err := s.renderer.Render(c.Request.Context(), state)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	result := tableJSON(vm.Enriched.Table)
	result["totalCount"] = vm.TotalPAGs
	c.JSON(http.StatusOK, result)
}

// parseWidgetState maps query parameters onto the widget controls, falling
// back to the documented defaults. Checkboxes are only read back when the
// form marks itself submitted, since an unchecked box sends nothing.
func parseWidgetState(c *gin.Context) (domain.WidgetState, error) {
	state := domain.DefaultWidgetState()

	if sources := c.QueryArray("sources"); len(sources) > 0 {
		state.Sources = sources
	}

	if v := c.Query("fdr"); v != "" {
		fdr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return state, fmt.Errorf("fdr %q is not a number", v)
		}
		state.FDR = fdr
	}

	if v := c.Query("gs_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, fmt.Errorf("gs_min %q is not an integer", v)
		}
		state.GSMin = n
		state.GSRangeSet = true
	}
	if v := c.Query("gs_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, fmt.Errorf("gs_max %q is not an integer", v)
		}
		state.GSMax = n
		state.GSRangeSet = true
	} else if state.GSRangeSet {
		state.GSMax = math.MaxInt
	}

	if c.Query("submitted") != "" {
		state.ShowDEG = c.Query("show_deg") != ""
		state.ShowSource = c.Query("show_source") != ""
	}

	return state, nil
}

func tableJSON(t *tabular.Table) gin.H {
	return gin.H{
		"headers": t.Headers(),
		"data":    t.Rows(),
	}
}

// statusFor maps the error taxonomy onto HTTP statuses: upstream
// reachability problems are gateway errors, everything else is internal.
func statusFor(err error) int {
	var fetchErr *domain.FetchError
	var serviceErr *domain.ServiceError
	if errors.As(err, &fetchErr) || errors.As(err, &serviceErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
