package clinical

import (
	"context"
	"errors"

	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

// Snapshot serves demographics from a pre-fetched UWS CSV export on disk.
type Snapshot struct {
	path string
}

var _ ports.ClinicalSource = (*Snapshot)(nil)

// NewSnapshot wires the snapshot file path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Demographics parses the snapshot and strips the age column.
func (s *Snapshot) Demographics(ctx context.Context) (*tabular.Table, error) {
	t, err := tabular.ReadFile(s.path, ',')
	if err != nil {
		var formatErr *tabular.FormatError
		if errors.As(err, &formatErr) {
			return nil, err
		}
		return nil, &domain.FetchError{Source: "clinical snapshot", Err: err}
	}
	return dropAge(t), nil
}
