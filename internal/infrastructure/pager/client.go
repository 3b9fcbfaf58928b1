// Package pager calls the PAGER gene-set enrichment REST API to perform a
// hypergeometric test over a gene list and returns the enriched PAGs.
package pager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CohortDashboard/internal/config"
	"CohortDashboard/internal/domain"
	"CohortDashboard/internal/ports"
	"CohortDashboard/internal/tabular"
)

const enrichPath = "/PAGER/index.php/geneset/pagerapi"

// listSeparator joins gene and source lists. PAGER's form parser cannot
// handle the standard encoding of spaces as '+', so the separator is the
// literal three-character sequence %20, sent on the wire as-is.
const listSeparator = "%20"

// Client issues synchronous enrichment calls. No retry, no backoff, no
// pagination; a failed call fails the render cycle.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ ports.Enricher = (*Client)(nil)

// NewClient builds a client from configuration; a nil http.Client gets a
// default with the configured timeout.
func NewClient(cfg config.PAGERConfig, client *http.Client) *Client {
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: cfg.BaseURL, client: client}
}

// Enrich posts the gene list with the fixed parameter set and parses the
// JSON array response into PAG records with coerced GS_SIZE values.
func (c *Client) Enrich(ctx context.Context, genes, sources []string, fdr float64) (*domain.EnrichmentSet, error) {
	body := encodeForm(genes, sources, fdr)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+enrichPath, strings.NewReader(body))
	if err != nil {
		return nil, &domain.FetchError{Source: "pager", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Source: "pager", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &domain.ServiceError{
			Service: "pager",
			Status:  resp.Status,
			Detail:  strings.TrimSpace(string(detail)),
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Source: "pager", Err: err}
	}

	table, err := decodeRecords(payload)
	if err != nil {
		return nil, err
	}
	return coerceSizes(table)
}

// encodeForm lays out the body in the fixed field order. The pre-joined
// gene and source values bypass url.Values so the %20 separators reach the
// wire unescaped; all other values are plain alphanumerics.
func encodeForm(genes, sources []string, fdr float64) string {
	fields := [][2]string{
		{"genes", strings.Join(genes, listSeparator)},
		{"source", strings.Join(sources, listSeparator)},
		{"type", "All"},
		{"sim", "0.01"},
		{"olap", "1"},
		{"organism", "All"},
		{"cohesion", "0"},
		{"pvalue", "0.05"},
		{"FDR", strconv.FormatFloat(fdr, 'g', -1, 64)},
		{"ge", "1"},
		{"le", "2000"},
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f[0])
		b.WriteByte('=')
		b.WriteString(f[1])
	}
	return b.String()
}

// decodeRecords turns the JSON array of flat objects into a table. Column
// order follows the key order of the first element so renders and exports
// stay deterministic.
func decodeRecords(payload []byte) (*tabular.Table, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, &domain.ServiceError{
			Service: "pager",
			Status:  "unparseable payload",
			Detail:  err.Error(),
		}
	}
	if len(elements) == 0 {
		return tabular.New(nil, nil)
	}

	headers, err := objectKeys(elements[0])
	if err != nil {
		return nil, &domain.ServiceError{Service: "pager", Status: "unparseable payload", Detail: err.Error()}
	}

	rows := make([][]string, len(elements))
	for i, element := range elements {
		obj, err := decodeObject(element)
		if err != nil {
			return nil, &domain.ServiceError{Service: "pager", Status: "unparseable payload", Detail: err.Error()}
		}
		row := make([]string, len(headers))
		for j, key := range headers {
			row[j] = stringify(obj[key])
		}
		rows[i] = row
	}
	return tabular.New(headers, rows)
}

// objectKeys lists the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, got %v", tok)
		}
		keys = append(keys, key)

		var discard any
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// coerceSizes converts the GS_SIZE column from numeric strings to integers.
// Every row must coerce or the whole result is rejected.
func coerceSizes(table *tabular.Table) (*domain.EnrichmentSet, error) {
	if table.Len() == 0 && !table.HasColumn(domain.GSSizeColumn) {
		return &domain.EnrichmentSet{Table: table}, nil
	}

	values, err := table.Column(domain.GSSizeColumn)
	if err != nil {
		return nil, &tabular.SchemaError{Source: "pager response", Missing: []string{domain.GSSizeColumn}}
	}

	sizes := make([]int, len(values))
	for i, value := range values {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, &tabular.SchemaError{
				Source: "pager response",
				Err:    fmt.Errorf("row %d: %s %q is not an integer", i+1, domain.GSSizeColumn, value),
			}
		}
		sizes[i] = n
	}
	return &domain.EnrichmentSet{Table: table, Sizes: sizes}, nil
}
