package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/tabular"
	"CohortDashboard/internal/usecase"
)

type stubClinical struct{ table *tabular.Table }

func (s stubClinical) Demographics(ctx context.Context) (*tabular.Table, error) {
	return s.table, nil
}

type stubDEG struct{ table *tabular.Table }

func (s stubDEG) Results(ctx context.Context) (*tabular.Table, error) {
	return s.table, nil
}

type stubEnricher struct {
	set *domain.EnrichmentSet
	err error
}

func (s stubEnricher) Enrich(ctx context.Context, genes, sources []string, fdr float64) (*domain.EnrichmentSet, error) {
	return s.set, s.err
}

func mustTable(t *testing.T, headers []string, rows [][]string) *tabular.Table {
	t.Helper()
	table, err := tabular.New(headers, rows)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func newTestServer(t *testing.T, enricher stubEnricher) *Server {
	t.Helper()

	clinical := stubClinical{table: mustTable(t, []string{"Subject", "Sex"}, [][]string{{"S1", "F"}})}
	deg := stubDEG{table: mustTable(t, []string{"Sample Name", "symbol"}, [][]string{
		{"JX12T", "TP53"},
		{"JX12T", "nan"},
		{"JX12T", "EGFR"},
	})}

	renderer := usecase.NewRenderer(usecase.RendererDeps{
		Clinical: clinical,
		DEG:      deg,
		Enricher: enricher,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(renderer, clinical, deg, PageAssets{SourceNote: "clinical: local snapshot"}, logger)
}

func healthyEnricher(t *testing.T) stubEnricher {
	t.Helper()
	return stubEnricher{set: &domain.EnrichmentSet{
		Table: mustTable(t, []string{"NAME", "GS_SIZE"}, [][]string{
			{"pathway one", "150"},
			{"pathway two", "30"},
		}),
		Sizes: []int{150, 30},
	}}
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/healthcheck")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDashboardRendersPipelineOutput(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	if title := doc.Find("h1").First().Text(); title != "U-BRITE Tech Demo" {
		t.Fatalf("unexpected page title %q", title)
	}

	href, ok := doc.Find("#download-csv").Attr("href")
	if !ok {
		t.Fatal("download link missing")
	}
	if !strings.HasPrefix(href, "data:file/csv;base64,") {
		t.Fatalf("download href not a base64 csv data link: %.60s", href)
	}

	options := doc.Find("select[name=sources] option")
	if options.Length() != len(domain.EnrichmentSources) {
		t.Fatalf("expected %d source options, got %d", len(domain.EnrichmentSources), options.Length())
	}
	selected := doc.Find("select[name=sources] option[selected]")
	if selected.Length() != len(domain.DefaultSources) {
		t.Fatalf("expected %d preselected sources, got %d", len(domain.DefaultSources), selected.Length())
	}
}

func TestDashboardAppliesRangeFilter(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/?submitted=1&gs_min=100&gs_max=200&show_deg=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	text := doc.Text()
	if !strings.Contains(text, "pathway one") {
		t.Fatal("record inside the range is missing")
	}
	if strings.Contains(text, "pathway two") {
		t.Fatal("record outside the range leaked through")
	}
}

func TestDashboardRejectsBadFDR(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/?fdr=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDashboardSurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	enricher := stubEnricher{err: &domain.ServiceError{Service: "pager", Status: "500 Internal Server Error"}}
	rec := get(t, newTestServer(t, enricher), "/")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestEnrichmentAPIFiltersAndCounts(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/api/enrichment?gs_min=100&gs_max=200")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Headers    []string   `json:"headers"`
		Data       [][]string `json:"data"`
		TotalCount int        `json:"totalCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if payload.TotalCount != 2 {
		t.Fatalf("totalCount = %d, want 2", payload.TotalCount)
	}
	if len(payload.Data) != 1 {
		t.Fatalf("expected 1 filtered row, got %d", len(payload.Data))
	}
	if payload.Data[0][0] != "pathway one" {
		t.Fatalf("wrong row survived: %v", payload.Data[0])
	}
}

func TestClinicalAPIReturnsTable(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, healthyEnricher(t)), "/api/clinical")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Headers []string   `json:"headers"`
		Data    [][]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Headers) != 2 || payload.Headers[0] != "Subject" {
		t.Fatalf("unexpected headers: %v", payload.Headers)
	}
}
