package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/validation"
)

// ReportController drives a parametrized report: filter state, execution,
// sorting and export.
type ReportController struct {
	api    ReportAPI
	report string

	mu            sync.Mutex
	gen           uint64
	closed        bool
	meta          *metadata.ReportMetadata
	filters       map[string]any
	filterOptions map[string][]metadata.Option
	errors        map[string][]string
	results       *metadata.ListPage
	sortBy        string
	sortDirection string
	page          int
	pageSize      int
	executing     bool
}

func NewReportController(api ReportAPI, report string) *ReportController {
	return &ReportController{
		api:           api,
		report:        report,
		filters:       make(map[string]any),
		filterOptions: make(map[string][]metadata.Option),
		page:          1,
	}
}

// Load fetches the report metadata and seeds declared filter defaults.
func (c *ReportController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	meta, err := c.api.ReportMetadata(ctx, c.report)
	if err != nil {
		return fmt.Errorf("controller: report %s: %w", c.report, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return nil
	}
	c.meta = meta
	c.pageSize = meta.DefaultPageSize
	for _, filter := range meta.Filters {
		if filter.DefaultValue != nil {
			if _, set := c.filters[filter.Name]; !set {
				c.filters[filter.Name] = filter.DefaultValue
			}
		}
	}
	return nil
}

// LoadFilterOptions fetches option lists for select filters that did not
// arrive with inline options.
func (c *ReportController) LoadFilterOptions(ctx context.Context) error {
	c.mu.Lock()
	if c.meta == nil || c.closed {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	var lookups []string
	for _, filter := range c.meta.Filters {
		switch filter.FieldType {
		case metadata.FilterSelect, metadata.FilterMultiSelect:
			if len(filter.Options) == 0 {
				lookups = append(lookups, filter.Name)
			}
		}
	}
	c.mu.Unlock()

	var firstErr error
	for _, name := range lookups {
		options, err := c.api.ReportFilterOptions(ctx, c.report, name)
		c.mu.Lock()
		if c.closed || gen != c.gen {
			c.mu.Unlock()
			return firstErr
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("controller: report %s filter %s options: %w", c.report, name, err)
			}
		} else {
			c.filterOptions[name] = options
		}
		c.mu.Unlock()
	}
	return firstErr
}

// SetFilter records a filter value. Setting nil clears it.
func (c *ReportController) SetFilter(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == nil {
		delete(c.filters, name)
		return
	}
	c.filters[name] = value
}

// SetFilters replaces filter values wholesale, e.g. from a submitted panel.
func (c *ReportController) SetFilters(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, value := range values {
		c.filters[name] = value
	}
}

// ToggleSort sorts by the given column, flipping direction when it is
// already the sort key. Matches the list controller's behavior.
func (c *ReportController) ToggleSort(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortBy == column {
		if c.sortDirection == "asc" {
			c.sortDirection = "desc"
		} else {
			c.sortDirection = "asc"
		}
		return
	}
	c.sortBy = column
	c.sortDirection = "asc"
}

// SetSort restores an absolute sort state, e.g. from URL parameters.
func (c *ReportController) SetSort(sortBy, direction string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortBy = sortBy
	if direction != "desc" {
		direction = "asc"
	}
	if sortBy == "" {
		direction = ""
	}
	c.sortDirection = direction
}

// SetPage moves to the given result page.
func (c *ReportController) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
}

// Execute validates required filters, strips cleared ones and runs the
// report. Validation failures surface inline and never reach the network.
// Results arriving after Close or a newer load are discarded.
func (c *ReportController) Execute(ctx context.Context) error {
	c.mu.Lock()
	if c.meta == nil {
		c.mu.Unlock()
		return fmt.Errorf("controller: report %s: execute before load", c.report)
	}
	if c.executing {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if errs := validateRequiredFilters(c.meta, c.filters); len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		return fmt.Errorf("controller: report %s: missing required filters", c.report)
	}
	c.errors = nil
	c.executing = true
	gen := c.gen
	query := client.ReportQuery{
		Filters:       CleanFilters(c.filters),
		Page:          c.page,
		PageSize:      c.pageSize,
		SortBy:        c.sortBy,
		SortDirection: c.sortDirection,
	}
	c.mu.Unlock()

	page, err := c.api.ExecuteReport(ctx, c.report, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.executing = false
	if err != nil {
		return fmt.Errorf("controller: report %s: %w", c.report, err)
	}
	if c.closed || gen != c.gen {
		return nil
	}
	c.results = &page
	return nil
}

// Export runs the report with the current filters and sort but without
// pagination, returning the blob and a deterministic file name.
func (c *ReportController) Export(ctx context.Context) ([]byte, string, error) {
	c.mu.Lock()
	if c.meta == nil {
		c.mu.Unlock()
		return nil, "", fmt.Errorf("controller: report %s: export before load", c.report)
	}
	if errs := validateRequiredFilters(c.meta, c.filters); len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		return nil, "", fmt.Errorf("controller: report %s: missing required filters", c.report)
	}
	query := client.ReportQuery{
		Filters:       CleanFilters(c.filters),
		SortBy:        c.sortBy,
		SortDirection: c.sortDirection,
	}
	c.mu.Unlock()

	blob, err := c.api.ExportReport(ctx, c.report, query)
	if err != nil {
		return nil, "", fmt.Errorf("controller: export %s: %w", c.report, err)
	}
	return blob, ExportFilename(c.report, time.Now()), nil
}

// Close discards the controller.
func (c *ReportController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// View snapshots the report state for rendering.
func (c *ReportController) View() render.ReportView {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters := make(map[string]any, len(c.filters))
	for name, value := range c.filters {
		filters[name] = value
	}
	options := make(map[string][]metadata.Option, len(c.filterOptions))
	for name, list := range c.filterOptions {
		options[name] = list
	}

	return render.ReportView{
		Report:        c.meta,
		FilterValues:  filters,
		FilterOptions: options,
		Errors:        c.errors,
		Results:       c.results,
		SortBy:        c.sortBy,
		SortDirection: c.sortDirection,
		Page:          c.page,
		Executing:     c.executing,
	}
}

// ExportFilename names an export blob from the report identifier and the
// given date, e.g. "sales-by-region_2026-08-30.csv".
func ExportFilename(report string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", report, now.Format("2006-01-02"))
}

// CleanFilters strips cleared values before transmission: nil, empty
// strings and empty multi-selections all mean "no filter", not "filter by
// empty".
func CleanFilters(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for name, value := range filters {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case []string:
			if len(v) == 0 {
				continue
			}
		case []any:
			if len(v) == 0 {
				continue
			}
		}
		out[name] = value
	}
	return out
}

func validateRequiredFilters(meta *metadata.ReportMetadata, filters map[string]any) map[string][]string {
	return validation.CheckFilters(meta.Filters, CleanFilters(filters)).Messages()
}
