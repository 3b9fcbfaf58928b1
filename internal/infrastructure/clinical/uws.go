package clinical

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CohortDashboard/internal/config"
	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

// uwsPreambleLines is the number of non-data metadata lines UWS prepends to
// every CSV response. A quirk of that service, not a CSV feature.
const uwsPreambleLines = 2

// UWSClient queries the getalli2b2demographics endpoint of the Unified Web
// Services API for de-identified cohort demographics.
type UWSClient struct {
	baseURL     string
	requestorID string
	cohortID    string
	eppn        string
	client      *http.Client
}

var _ ports.ClinicalSource = (*UWSClient)(nil)

// NewUWSClient builds a client from configuration; a nil http.Client gets a
// default with the configured timeout.
func NewUWSClient(cfg config.ClinicalConfig, client *http.Client) *UWSClient {
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &UWSClient{
		baseURL:     cfg.BaseURL,
		requestorID: cfg.RequestorID,
		cohortID:    cfg.CohortID,
		eppn:        cfg.Eppn,
		client:      client,
	}
}

// Demographics performs the authenticated GET, discards the UWS preamble,
// parses the remainder as CSV, and strips the age column.
func (c *UWSClient) Demographics(ctx context.Context) (*tabular.Table, error) {
	endpoint := fmt.Sprintf("%s/getalli2b2demographics", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.FetchError{Source: "clinical data", Err: err}
	}

	q := url.Values{}
	q.Set("requestorid", c.requestorID)
	q.Set("cohortid", c.cohortID)
	q.Set("format", "csv")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("eppn", c.eppn)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Source: "clinical data", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{
			Source: "clinical data",
			Err:    fmt.Errorf("uws returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Source: "clinical data", Err: err}
	}

	data, err := stripPreamble(body, uwsPreambleLines)
	if err != nil {
		return nil, &tabular.FormatError{Source: "clinical data", Err: err}
	}

	t, err := tabular.Read(bytes.NewReader(data), ',')
	if err != nil {
		return nil, &tabular.FormatError{Source: "clinical data", Err: err}
	}
	return dropAge(t), nil
}

func stripPreamble(body []byte, lines int) ([]byte, error) {
	rest := body
	for i := 0; i < lines; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return nil, fmt.Errorf("response ended inside the %d-line preamble", lines)
		}
		rest = rest[idx+1:]
	}
	return rest, nil
}
