package ports

import (
	"context"

	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/tabular"
)

// ClinicalSource retrieves cohort demographic rows. Implementations must
// never expose the age column (sentinel -1 values confuse readers).
type ClinicalSource interface {
	Demographics(ctx context.Context) (*tabular.Table, error)
}

// DEGSource loads differential-gene-expression results shaped to the fixed
// 17-column schema with the sample-name tag first.
type DEGSource interface {
	Results(ctx context.Context) (*tabular.Table, error)
}

// Enricher runs a gene-set enrichment query against PAGER and returns PAG
// records with coerced gene-set sizes.
type Enricher interface {
	Enrich(ctx context.Context, genes, sources []string, fdr float64) (*domain.EnrichmentSet, error)
}
