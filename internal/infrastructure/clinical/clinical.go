// Package clinical retrieves cohort demographic data, either from a local
// CSV snapshot or live from the Unified Web Services (UWS) API.
package clinical

import (
	"fmt"
	"net/http"

	"CohortDashboard/internal/config"
	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

// ageColumn is removed from every result. The service reports -1 for
// unknown ages, which reads as a real value; the field must never be shown.
const ageColumn = "Age(in years)"

// New resolves the configured strategy, mirroring how the mode string picks
// a source implementation.
func New(cfg config.ClinicalConfig, client *http.Client) (ports.ClinicalSource, error) {
	switch cfg.Mode {
	case "", "local":
		return NewSnapshot(cfg.SnapshotPath), nil
	case "remote":
		return NewUWSClient(cfg, client), nil
	default:
		return nil, fmt.Errorf("clinical mode %q is not supported (local or remote)", cfg.Mode)
	}
}

func dropAge(t *tabular.Table) *tabular.Table {
	return t.Drop(ageColumn)
}
