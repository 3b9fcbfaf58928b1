// Package deg loads differential-gene-expression results from the
// tab-delimited DESeq2 pipeline output and shapes them to the fixed
// dashboard schema.
package deg

import (
	"context"
	"log/slog"
	"sync"

	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

// SampleNameColumn tags every row with the pairwise comparison it belongs
// to; the field is injected, not present in the source file, and always
// occupies the first column.
const SampleNameColumn = "Sample Name"

// RowIndexColumn names the gene row-index column. DESeq2 result files write
// it with a blank header cell; the shaped schema carries it under the name
// a pandas reader assigns to that cell.
const RowIndexColumn = "Unnamed: 0"

// Columns is the fixed 17-column output schema. Order matters: downstream
// rendering and exports rely on it exactly.
var Columns = []string{
	SampleNameColumn,
	RowIndexColumn,
	"baseMean",
	"log2FoldChange",
	"lfcSE",
	"stat",
	"pvalue",
	"padj",
	"symbol",
	"ensembl",
	"external_gene",
	"gene_biotype",
	"description",
	"chromosome_name",
	"start_position",
	"end_position",
	"strand",
}

// Loader reads the DEG results file once per process lifetime. The result
// is memoized with no invalidation: edits to the file are not observed
// until restart, and concurrent render cycles share a single load.
type Loader struct {
	path       string
	sampleName string
	logger     *slog.Logger

	once  sync.Once
	table *tabular.Table
	err   error
}

var _ ports.DEGSource = (*Loader)(nil)

// NewLoader wires the results file path and the injected sample tag.
func NewLoader(path, sampleName string, logger *slog.Logger) *Loader {
	return &Loader{path: path, sampleName: sampleName, logger: logger}
}

// Results returns the shaped DEG table, loading it on first call.
func (l *Loader) Results(ctx context.Context) (*tabular.Table, error) {
	l.once.Do(func() {
		l.table, l.err = l.load()
		if l.err == nil && l.logger != nil {
			l.logger.Debug("deg results loaded", "path", l.path, "rows", l.table.Len())
		}
	})
	return l.table, l.err
}

func (l *Loader) load() (*tabular.Table, error) {
	t, err := tabular.ReadFile(l.path, '\t')
	if err != nil {
		return nil, err
	}

	t, err = nameRowIndex(t)
	if err != nil {
		return nil, err
	}
	t = t.InsertConst(SampleNameColumn, l.sampleName)

	// Reorder so the sample tag leads; a missing source column means the
	// upstream file format drifted and the load must fail.
	return t.Select(Columns...)
}

// nameRowIndex fills in a blank leading header. DESeq2 leaves the gene
// row-index column unnamed, so the canonical input never carries
// RowIndexColumn literally.
func nameRowIndex(t *tabular.Table) (*tabular.Table, error) {
	headers := t.Headers()
	if len(headers) == 0 || headers[0] != "" {
		return t, nil
	}
	named := append([]string(nil), headers...)
	named[0] = RowIndexColumn
	return tabular.New(named, t.Rows())
}
