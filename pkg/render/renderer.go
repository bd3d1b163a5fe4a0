// Package render defines the contracts between the controllers and the
// pluggable renderers, plus the display-value layer shared by list, detail
// and table output.
package render

import (
	"context"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/permissions"
)

// View kinds understood by renderers.
const (
	KindForm    = "form"
	KindList    = "list"
	KindDetail  = "detail"
	KindReport  = "report"
	KindCatalog = "catalog"
)

// View is the renderer input. Each concrete view carries the canonical
// metadata plus the interaction state the controllers resolved.
type View interface {
	Kind() string
}

// FormView renders a create or edit form.
type FormView struct {
	Entity  *metadata.EntityMetadata
	Surface metadata.Surface
	// RecordID is empty for new records.
	RecordID string
	Values   map[string]any
	// Options holds resolved option lists per field name. A field present in
	// PendingOptions but absent here renders a loading placeholder instead
	// of an empty select.
	Options        map[string][]metadata.Option
	PendingOptions map[string]bool
	Errors         map[string][]string
	FormError      string
	// Submitting disables the submit control while the form's own mutation
	// is in flight.
	Submitting bool
}

func (FormView) Kind() string { return KindForm }

// ListView renders one page of an entity's records.
type ListView struct {
	Entity       *metadata.EntityMetadata
	Page         metadata.ListPage
	Search       string
	OrderBy      string
	Ascending    bool
	Capabilities permissions.Capabilities
	Loading      bool
}

func (ListView) Kind() string { return KindList }

// DetailView renders a read-only projection of a single record.
type DetailView struct {
	Entity       *metadata.EntityMetadata
	Record       metadata.Record
	RecordID     string
	Capabilities permissions.Capabilities
}

func (DetailView) Kind() string { return KindDetail }

// ReportView renders a report's filter panel and, when Results is non-nil,
// its result table.
type ReportView struct {
	Report        *metadata.ReportMetadata
	FilterValues  map[string]any
	FilterOptions map[string][]metadata.Option
	Errors        map[string][]string
	Results       *metadata.ListPage
	SortBy        string
	SortDirection string
	Page          int
	Executing     bool
}

func (ReportView) Kind() string { return KindReport }

// CatalogView renders the entity/report navigation catalog.
type CatalogView struct {
	Entities []metadata.EntitySummary
	Reports  []metadata.ReportSummary
}

func (CatalogView) Kind() string { return KindCatalog }

// Renderer converts a view into a byte representation (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
