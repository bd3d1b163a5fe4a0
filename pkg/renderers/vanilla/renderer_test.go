package vanilla_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/permissions"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/renderers/vanilla"
)

func testThemeConfig() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		CSSVars: map[string]string{
			"--brand": "#123456",
		},
		AssetURL: func(key string) string {
			if key == "" {
				return ""
			}
			return "/themes/acme/" + key
		},
	}
}

func testEntity() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Name:        "products",
		DisplayName: "Products",
		Fields: []metadata.FieldDescriptor{
			{
				Name: "id", DisplayName: "ID", DataType: metadata.TypeUUID,
				IsReadOnly: true, ShowInList: true, ShowInDetail: true,
				ListOrder: 0,
			},
			{
				Name: "name", DisplayName: "Name", DataType: metadata.TypeString,
				IsRequired: true, ShowInList: true, ShowInCreate: true,
				ShowInUpdate: true, ShowInDetail: true,
				ListOrder: 1, FormOrder: 0, MaxLength: 120,
			},
			{
				Name: "category_id", DisplayName: "Category", DataType: metadata.TypeUUID,
				HasRelationship: true, ShowInCreate: true, ShowInUpdate: true,
				ShowInList: true, ShowInDetail: true, ListOrder: 2, FormOrder: 1,
			},
			{
				Name: "active", DisplayName: "Active", DataType: metadata.TypeBoolean,
				ShowInCreate: true, ShowInUpdate: true, ShowInList: true,
				ListOrder: 3, FormOrder: 2,
			},
			{
				Name: "notes", DisplayName: "Notes", DataType: metadata.TypeText,
				ShowInCreate: true, ShowInUpdate: true, FormOrder: 3, MaxLength: 500,
			},
		},
	}
}

func renderView(t *testing.T, view render.View, options render.RenderOptions) string {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	output, err := renderer.Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return string(output)
}

func mustContain(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n---\n%s", want, output)
		}
	}
}

func TestRenderForm(t *testing.T) {
	view := render.FormView{
		Entity:  testEntity(),
		Surface: metadata.SurfaceCreate,
		Values:  map[string]any{"name": "Widget", "active": true},
		Options: map[string][]metadata.Option{
			"category_id": {
				{Value: "c1", Label: "Hardware"},
				{Value: "c2", Label: "Software"},
			},
		},
	}

	output := renderView(t, view, render.RenderOptions{BasePath: "/admin"})

	mustContain(t, output,
		`action="/admin/crud/products/new"`,
		`<label for="bo-name">Name *</label>`,
		`data-widget="select"`,
		`<option value="c1">Hardware</option>`,
		`data-widget="toggle"`,
		`type="checkbox"`,
		`checked`,
		`<textarea id="bo-notes"`,
		`maxlength="500"`,
		`bo-char-counter`,
	)
}

func TestRenderFormPendingOptions(t *testing.T) {
	view := render.FormView{
		Entity:         testEntity(),
		Surface:        metadata.SurfaceCreate,
		PendingOptions: map[string]bool{"category_id": true},
	}

	output := renderView(t, view, render.RenderOptions{})

	mustContain(t, output, `data-pending="true"`, "Loading options…")
	if strings.Contains(output, `<option value="c1"`) {
		t.Fatalf("pending select should not list options")
	}
}

func TestRenderFormSubmittingAndErrors(t *testing.T) {
	view := render.FormView{
		Entity:     testEntity(),
		Surface:    metadata.SurfaceUpdate,
		RecordID:   "p1",
		Submitting: true,
		FormError:  "Name already in use",
		Errors:     map[string][]string{"name": {"Name is required"}},
	}

	output := renderView(t, view, render.RenderOptions{
		Hidden: map[string]string{"_csrf": "tok"},
	})

	mustContain(t, output,
		`action="/crud/products/p1"`,
		`<div class="bo-form-error" role="alert">Name already in use</div>`,
		`<small class="bo-field-error">Name is required</small>`,
		`<input type="hidden" name="_csrf" value="tok">`,
	)
	if !strings.Contains(output, "disabled>Save") {
		t.Fatalf("submit button should be disabled while submitting:\n%s", output)
	}
}

func TestRenderList(t *testing.T) {
	view := render.ListView{
		Entity: testEntity(),
		Page: metadata.ListPage{
			Records: []metadata.Record{
				{
					"id": "p1", "name": "Widget", "active": true,
					"category_id": "c1", "category_id_display": "Hardware",
				},
			},
			Pagination: metadata.Pagination{Page: 10, PageSize: 20, TotalCount: 240, TotalPages: 12},
		},
		OrderBy:      "name",
		Ascending:    true,
		Capabilities: permissions.Capabilities{CanCreate: true, CanUpdate: true, CanDelete: true},
	}

	output := renderView(t, view, render.RenderOptions{})

	mustContain(t, output,
		`<span class="bo-sort-indicator">▲</span>`,
		"Hardware",
		">Yes<",
		`href="/crud/products/new"`,
		`href="/crud/products/p1"`,
	)

	// Sorted column link flips direction and keeps the page.
	mustContain(t, output, "ascending=false", "orderBy=name", "page=10")

	// Window sticks to the last pages: 8 through 12 around page 10 of 12.
	for _, page := range []string{">8<", ">9<", ">11<", ">12<"} {
		mustContain(t, output, page)
	}
	if strings.Contains(output, ">7<") {
		t.Fatalf("window should not include page 7:\n%s", output)
	}
}

func TestRenderListEmpty(t *testing.T) {
	view := render.ListView{Entity: testEntity()}

	output := renderView(t, view, render.RenderOptions{Messages: render.MessagesPTBR()})

	mustContain(t, output, "Nenhum registro encontrado")
}

func TestRenderDetailMasksSecrets(t *testing.T) {
	entity := testEntity()
	entity.Fields = append(entity.Fields, metadata.FieldDescriptor{
		Name: "api_password", DisplayName: "API Password",
		DataType: metadata.TypeString, ShowInDetail: true, FormOrder: 9,
	})

	view := render.DetailView{
		Entity:   entity,
		RecordID: "p1",
		Record: metadata.Record{
			"id": "p1", "name": "Widget", "api_password": "hunter2",
		},
		Capabilities: permissions.Capabilities{CanUpdate: true},
	}

	output := renderView(t, view, render.RenderOptions{})

	mustContain(t, output, "••••••••", `href="/crud/products/p1"`)
	if strings.Contains(output, "hunter2") {
		t.Fatalf("secret value leaked into detail output")
	}
	if strings.Contains(output, "bo-button\">Delete") {
		t.Fatalf("delete action rendered without the delete capability")
	}
}

func TestRenderReport(t *testing.T) {
	report := &metadata.ReportMetadata{
		Name:               "sales-by-region",
		DisplayName:        "Sales by Region",
		SupportsExport:     true,
		SupportsPagination: true,
		Filters: []metadata.ReportFilterDescriptor{
			{Name: "from", DisplayName: "From", FieldType: metadata.FilterDate, Required: true},
			{
				Name: "region", DisplayName: "Region", FieldType: metadata.FilterSelect,
				Options: []metadata.Option{{Value: "emea", Label: "EMEA"}},
			},
			{Name: "status", DisplayName: "Status", FieldType: "mystery"},
		},
		Columns: []metadata.ReportColumnDescriptor{
			{Name: "region", DisplayName: "Region", FieldType: "string"},
			{Name: "total", DisplayName: "Total", FieldType: "decimal", Align: "right"},
		},
	}

	view := render.ReportView{
		Report:       report,
		FilterValues: map[string]any{"region": "emea"},
		Results: &metadata.ListPage{
			Records: []metadata.Record{
				{"region": "EMEA", "total": 1234.5},
			},
			Pagination: metadata.Pagination{Page: 1, TotalPages: 1, TotalCount: 1},
		},
	}

	output := renderView(t, view, render.RenderOptions{})

	mustContain(t, output,
		"Sales by Region",
		`type="date"`,
		`<option value="emea" selected>EMEA</option>`,
		// Unknown filter types degrade to free text.
		`<input type="text" id="bo-status"`,
		`formaction="/reports/sales-by-region/export"`,
		"1234.50",
	)
}

func TestRenderReportNavigationKeepsQuery(t *testing.T) {
	report := &metadata.ReportMetadata{
		Name:               "sales-by-region",
		DisplayName:        "Sales by Region",
		SupportsPagination: true,
		Filters: []metadata.ReportFilterDescriptor{
			{Name: "region", DisplayName: "Region", FieldType: metadata.FilterSelect, Required: true,
				Options: []metadata.Option{{Value: "south", Label: "South"}}},
		},
		Columns: []metadata.ReportColumnDescriptor{
			{Name: "region", DisplayName: "Region", FieldType: "string"},
			{Name: "total", DisplayName: "Total", FieldType: "decimal", Sortable: true},
		},
	}

	view := render.ReportView{
		Report:        report,
		FilterValues:  map[string]any{"region": "south", "from": ""},
		SortBy:        "total",
		SortDirection: "asc",
		Results: &metadata.ListPage{
			Records:    []metadata.Record{{"region": "South", "total": 10.0}},
			Pagination: metadata.Pagination{Page: 2, PageSize: 1, TotalPages: 3, TotalCount: 3},
		},
	}

	output := renderView(t, view, render.RenderOptions{})

	mustContain(t, output,
		// Page links re-run the same filtered, sorted query.
		`href="/reports/sales-by-region?ascending=true&amp;orderBy=total&amp;page=3&amp;region=south"`,
		// The sorted column links to the flipped direction, same page.
		`href="/reports/sales-by-region?ascending=false&amp;orderBy=total&amp;page=2&amp;region=south"`,
	)
	if strings.Contains(output, `href="/reports/sales-by-region?page=3"`) {
		t.Fatalf("pagination link dropped the active filters:\n%s", output)
	}
}

func TestRenderCatalog(t *testing.T) {
	view := render.CatalogView{
		Entities: []metadata.EntitySummary{
			{Name: "products", DisplayName: "Products", Description: "Product catalog"},
		},
		Reports: []metadata.ReportSummary{
			{Name: "sales-by-region", DisplayName: "Sales by Region"},
		},
	}

	output := renderView(t, view, render.RenderOptions{BasePath: "/admin"})

	mustContain(t, output,
		`href="/admin/crud/products"`,
		`href="/admin/reports/sales-by-region"`,
		"Product catalog",
	)
}

func TestRenderThemeChrome(t *testing.T) {
	view := render.CatalogView{}

	output := renderView(t, view, render.RenderOptions{
		Theme: testThemeConfig(),
	})

	mustContain(t, output,
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		"--brand: #123456;",
		`link rel="stylesheet" href="/themes/acme/`+vanilla.StylesheetName+`"`,
	)
}
