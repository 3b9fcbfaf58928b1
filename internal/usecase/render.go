// Package usecase orchestrates one full render cycle: every interaction
// re-derives the entire view from widget state plus the external data
// sources. The only recomputation skipped is the memoized DEG load, which
// lives inside its source.
package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

// missingSymbol is the textual sentinel the DEG pipeline writes for absent
// gene symbols. The comparison is string-level on purpose: the upstream
// missing-value marker is already stringified in the file.
const missingSymbol = "nan"

// exportPrefix embeds the filtered CSV as a same-document download link.
// A workaround carried over from the original rendering stack, which had no
// native file-download primitive.
const exportPrefix = "data:file/csv;base64,"

// ViewModel is the complete, render-ready result of one cycle.
type ViewModel struct {
	State    domain.WidgetState
	Clinical *tabular.Table
	DEG      *tabular.Table

	Genes    []string
	Enriched *domain.EnrichmentSet

	// GSFloor/GSCeil are the observed GS_SIZE bounds of the unfiltered
	// result; GSLo/GSHi are the applied filter edges.
	GSFloor, GSCeil int
	GSLo, GSHi      int
	TotalPAGs       int

	DownloadHref string
}

// RendererDeps wires all driven adapters into the render cycle.
type RendererDeps struct {
	Clinical ports.ClinicalSource
	DEG      ports.DEGSource
	Enricher ports.Enricher
	Logger   *slog.Logger
}

// Renderer implements the recompute-per-interaction workflow.
type Renderer struct {
	clinical ports.ClinicalSource
	deg      ports.DEGSource
	enricher ports.Enricher
	logger   *slog.Logger
}

// NewRenderer constructs the orchestration component.
func NewRenderer(deps RendererDeps) *Renderer {
	return &Renderer{
		clinical: deps.Clinical,
		deg:      deps.DEG,
		enricher: deps.Enricher,
		logger:   deps.Logger,
	}
}

// Render runs one cycle top to bottom. Any component failure aborts the
// cycle; there is no partial or degraded view.
func (r *Renderer) Render(ctx context.Context, state domain.WidgetState) (*ViewModel, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("widget state: %w", err)
	}

	clinical, err := r.clinical.Demographics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clinical data: %w", err)
	}

	deg, err := r.deg.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deg results: %w", err)
	}

	genes, err := ExtractGenes(deg)
	if err != nil {
		return nil, fmt.Errorf("extract genes: %w", err)
	}

	enriched, err := r.enricher.Enrich(ctx, genes, state.Sources, state.FDR)
	if err != nil {
		return nil, fmt.Errorf("run pager analysis: %w", err)
	}

	floor, ceil, ok := enriched.Bounds()
	lo, hi := floor, ceil
	if state.GSRangeSet {
		// The submitted range may have been derived from an earlier result
		// with different bounds; the filter edges stay on the current track.
		lo, hi = clampRange(state.GSMin, state.GSMax, floor, ceil)
	}

	filtered := enriched
	if ok {
		filtered = enriched.FilterRange(lo, hi)
	}

	r.debug("render cycle complete",
		"clinical_rows", clinical.Len(),
		"deg_rows", deg.Len(),
		"genes", len(genes),
		"pags", enriched.Len(),
		"filtered", filtered.Len(),
	)

	return &ViewModel{
		State:        state,
		Clinical:     clinical,
		DEG:          deg,
		Genes:        genes,
		Enriched:     filtered,
		GSFloor:      floor,
		GSCeil:       ceil,
		GSLo:         lo,
		GSHi:         hi,
		TotalPAGs:    enriched.Len(),
		DownloadHref: ExportHref(filtered.Table),
	}, nil
}

// ExtractGenes projects the symbol column of the DEG table, excluding empty
// values and the "nan" sentinel. Source row order is kept and duplicates
// are preserved.
func ExtractGenes(deg *tabular.Table) ([]string, error) {
	symbols, err := deg.Column("symbol")
	if err != nil {
		return nil, err
	}

	genes := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if symbol == "" || symbol == missingSymbol {
			continue
		}
		genes = append(genes, symbol)
	}
	return genes, nil
}

// clampRange pulls both edges into [floor, ceil]. Inputs arrive ordered
// (Validate rejects inverted ranges), so the result stays ordered.
func clampRange(lo, hi, floor, ceil int) (int, int) {
	if lo < floor {
		lo = floor
	}
	if lo > ceil {
		lo = ceil
	}
	if hi > ceil {
		hi = ceil
	}
	if hi < floor {
		hi = floor
	}
	return lo, hi
}

// ExportHref encodes the table as UTF-8 CSV wrapped in a base64 data link,
// reflecting exactly the rows it was given.
func ExportHref(t *tabular.Table) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(t.CSV()))
	return exportPrefix + encoded
}

func (r *Renderer) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
