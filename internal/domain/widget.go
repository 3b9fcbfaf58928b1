package domain

import "fmt"

// EnrichmentSources enumerates the gene-set collections PAGER can query.
var EnrichmentSources = []string{"KEGG", "WikiPathway", "BioCarta", "MSigDB", "Reactome", "Spike"}

// DefaultSources are preselected on first render.
var DefaultSources = []string{"KEGG", "WikiPathway"}

// DefaultFDR is the initial false-discovery-rate cutoff.
const DefaultFDR = 0.05

// WidgetState carries every user-adjustable control. A render cycle is a
// pure function of this state plus the external data sources.
type WidgetState struct {
	Sources    []string
	FDR        float64
	GSMin      int
	GSMax      int
	GSRangeSet bool
	ShowDEG    bool
	ShowSource bool
}

// DefaultWidgetState mirrors the controls' initial positions. The GS_SIZE
// range stays unset until the enrichment result establishes its bounds.
func DefaultWidgetState() WidgetState {
	return WidgetState{
		Sources: append([]string(nil), DefaultSources...),
		FDR:     DefaultFDR,
		ShowDEG: true,
	}
}

// HasSource reports whether the named collection is currently selected.
func (s WidgetState) HasSource(name string) bool {
	for _, src := range s.Sources {
		if src == name {
			return true
		}
	}
	return false
}

// Validate rejects states the controls cannot produce (unknown source,
// FDR outside [0,1]) before any upstream call is made.
func (s WidgetState) Validate() error {
	if s.FDR < 0 || s.FDR > 1 {
		return fmt.Errorf("fdr %g out of range [0,1]", s.FDR)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("at least one enrichment source is required")
	}
	for _, src := range s.Sources {
		if !ValidSource(src) {
			return fmt.Errorf("unknown enrichment source %q", src)
		}
	}
	if s.GSRangeSet && s.GSMin > s.GSMax {
		return fmt.Errorf("gene-set size range [%d, %d] is inverted", s.GSMin, s.GSMax)
	}
	return nil
}

// ValidSource reports whether name is one of the fixed PAGER collections.
func ValidSource(name string) bool {
	for _, src := range EnrichmentSources {
		if src == name {
			return true
		}
	}
	return false
}
