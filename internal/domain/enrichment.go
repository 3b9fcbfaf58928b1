package domain

import "CohortDashboard/internal/tabular"

// GSSizeColumn is the gene-set size field in PAGER responses. It arrives as
// a numeric string and is coerced once at the boundary.
const GSSizeColumn = "GS_SIZE"

// EnrichmentSet couples the raw PAG rows with their coerced GS_SIZE values.
// Sizes is parallel to Table rows; construction guarantees every row has one.
type EnrichmentSet struct {
	Table *tabular.Table
	Sizes []int
}

// Len returns the number of PAG records.
func (s *EnrichmentSet) Len() int { return len(s.Sizes) }

// Bounds returns the observed min and max GS_SIZE. ok is false for an empty
// set, where no range can be derived.
func (s *EnrichmentSet) Bounds() (lo, hi int, ok bool) {
	if len(s.Sizes) == 0 {
		return 0, 0, false
	}
	lo, hi = s.Sizes[0], s.Sizes[0]
	for _, v := range s.Sizes[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// FilterRange keeps exactly the records with lo <= GS_SIZE <= hi, both ends
// inclusive, preserving row order.
func (s *EnrichmentSet) FilterRange(lo, hi int) *EnrichmentSet {
	sizes := make([]int, 0, len(s.Sizes))
	table := s.Table.Filter(func(i int) bool {
		if s.Sizes[i] < lo || s.Sizes[i] > hi {
			return false
		}
		sizes = append(sizes, s.Sizes[i])
		return true
	})
	return &EnrichmentSet{Table: table, Sizes: sizes}
}
