package client

import (
	"context"
	"fmt"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Reports fetches the report catalog.
func (c *Client) Reports(ctx context.Context) ([]metadata.ReportSummary, error) {
	var response wrappedData[[]metadata.ReportSummary]
	if err := c.get("/api/reports").Do(ctx, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ReportMetadata fetches and normalizes the metadata for one report.
func (c *Client) ReportMetadata(ctx context.Context, report string) (*metadata.ReportMetadata, error) {
	var raw map[string]any
	if err := c.get("/api/reports/" + report + "/metadata").Do(ctx, &raw); err != nil {
		return nil, err
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		raw = inner
	}
	meta, err := metadata.NormalizeReport(raw)
	if err != nil {
		return nil, fmt.Errorf("client: report %q metadata: %w", report, err)
	}
	return meta, nil
}

// ReportQuery carries the execution parameters for a report run. Filters
// are expected pre-cleaned: no empty or nil values.
type ReportQuery struct {
	Filters       map[string]any
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
}

// ExecuteReport runs a report and returns one page of results.
func (c *Client) ExecuteReport(ctx context.Context, report string, query ReportQuery) (metadata.ListPage, error) {
	body := map[string]any{
		"filters": query.Filters,
	}
	if query.Page > 0 {
		body["page"] = query.Page
	}
	if query.PageSize > 0 {
		body["pageSize"] = query.PageSize
	}
	if query.SortBy != "" {
		body["sortBy"] = query.SortBy
		body["sortDirection"] = query.SortDirection
	}

	var response struct {
		Data       []metadata.Record   `json:"data"`
		Pagination metadata.Pagination `json:"pagination"`
	}
	if err := c.post("/api/reports/" + report + "/execute").JSON(body).Do(ctx, &response); err != nil {
		return metadata.ListPage{}, err
	}
	return metadata.ListPage{Records: response.Data, Pagination: response.Pagination}, nil
}

// ExportReport runs a report export with the same filters and sort but no
// pagination; the full result set comes back as an opaque blob.
func (c *Client) ExportReport(ctx context.Context, report string, query ReportQuery) ([]byte, error) {
	body := map[string]any{
		"filters": query.Filters,
	}
	if query.SortBy != "" {
		body["sortBy"] = query.SortBy
		body["sortDirection"] = query.SortDirection
	}
	return c.post("/api/reports/" + report + "/export").JSON(body).Raw(ctx)
}

// ReportFilterOptions fetches the options for a select/multiselect report
// filter that declares none inline.
func (c *Client) ReportFilterOptions(ctx context.Context, report, filter string) ([]metadata.Option, error) {
	var response wrappedData[[]metadata.Option]
	endpoint := "/api/reports/" + report + "/filters/" + filter + "/options"
	if err := c.get(endpoint).Do(ctx, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}
