// Package testsupport provides shared fixtures for the metadata and
// controller tests: canonical entity and report schemas, raw payloads in
// both observed schema generations, and a scriptable in-memory API.
package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Entity returns a canonical two-field entity: a required string and a
// boolean defaulting to true.
func Entity() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Name:        "customers",
		DisplayName: "Customers",
		Fields: []metadata.FieldDescriptor{
			{
				Name:         "name",
				DisplayName:  "Name",
				DataType:     metadata.TypeString,
				IsRequired:   true,
				ShowInList:   true,
				ShowInCreate: true,
				ShowInUpdate: true,
				ShowInDetail: true,
			},
			{
				Name:         "active",
				DisplayName:  "Active",
				DataType:     metadata.TypeBoolean,
				DefaultValue: true,
				ShowInList:   true,
				ShowInCreate: true,
				ShowInUpdate: true,
				ShowInDetail: true,
				FormOrder:    1,
			},
		},
		AllowCreate: true,
		AllowRead:   true,
		AllowUpdate: true,
		AllowDelete: true,
	}
}

// LegacyMetadataPayload returns a raw metadata document in the older schema
// generation: a single showInForm flag instead of split create/update
// visibility.
func LegacyMetadataPayload() map[string]any {
	return map[string]any{
		"name":        "customers",
		"displayName": "Customers",
		"allowCreate": true,
		"allowRead":   true,
		"allowUpdate": true,
		"allowDelete": true,
		"fields": []any{
			map[string]any{
				"name":        "name",
				"displayName": "Name",
				"dataType":    "string",
				"isRequired":  true,
				"showInList":  true,
				"showInForm":  true,
				"formOrder":   0,
			},
			map[string]any{
				"name":         "active",
				"displayName":  "Active",
				"dataType":     "boolean",
				"defaultValue": true,
				"showInList":   true,
				"showInForm":   true,
				"formOrder":    1,
			},
		},
	}
}

// ModernMetadataPayload returns the same entity in the newer generation
// with split create/update visibility.
func ModernMetadataPayload() map[string]any {
	raw := LegacyMetadataPayload()
	for _, entry := range raw["fields"].([]any) {
		field := entry.(map[string]any)
		delete(field, "showInForm")
		field["showInCreate"] = true
		field["showInUpdate"] = true
	}
	return raw
}

// Report returns a canonical report with a required select filter, an
// optional date filter and two columns.
func Report() *metadata.ReportMetadata {
	return &metadata.ReportMetadata{
		Name:        "sales-by-region",
		DisplayName: "Sales by Region",
		Filters: []metadata.ReportFilterDescriptor{
			{
				Name:        "region",
				DisplayName: "Region",
				FieldType:   metadata.FilterSelect,
				Required:    true,
				Options: []metadata.Option{
					{Value: "north", Label: "North"},
					{Value: "south", Label: "South"},
				},
			},
			{
				Name:        "from",
				DisplayName: "From",
				FieldType:   metadata.FilterDate,
			},
		},
		Columns: []metadata.ReportColumnDescriptor{
			{Name: "region", DisplayName: "Region", FieldType: "string"},
			{Name: "total", DisplayName: "Total", FieldType: "decimal", Sortable: true},
		},
		SupportsPagination: true,
		SupportsExport:     true,
	}
}

// FakeAPI is an in-memory stand-in for the REST client. Responses are
// scripted through its fields; the optional Before hook runs at the start
// of every call, letting tests block or reorder resolutions.
type FakeAPI struct {
	Meta       *metadata.EntityMetadata
	Pages      map[int]metadata.ListPage
	RecordsMap map[string]metadata.Record
	Options    map[string][]metadata.Option
	ReportMeta *metadata.ReportMetadata
	Results    metadata.ListPage
	ExportBlob []byte

	// Err, when set, is returned by every call.
	Err error
	// Before runs at the start of each call with the method name.
	Before func(method string)

	LastListQuery   client.ListQuery
	LastReportQuery client.ReportQuery
	LastPayload     map[string]any
	Deleted         []string
	Calls           []string
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		Meta:       Entity(),
		Pages:      make(map[int]metadata.ListPage),
		RecordsMap: make(map[string]metadata.Record),
		Options:    make(map[string][]metadata.Option),
		ReportMeta: Report(),
	}
}

func (f *FakeAPI) enter(method string) error {
	f.Calls = append(f.Calls, method)
	if f.Before != nil {
		f.Before(method)
	}
	return f.Err
}

func (f *FakeAPI) EntityMetadata(_ context.Context, _ string) (*metadata.EntityMetadata, error) {
	if err := f.enter("EntityMetadata"); err != nil {
		return nil, err
	}
	return f.Meta, nil
}

func (f *FakeAPI) Records(_ context.Context, _ string, query client.ListQuery) (metadata.ListPage, error) {
	if err := f.enter("Records"); err != nil {
		return metadata.ListPage{}, err
	}
	f.LastListQuery = query
	if page, ok := f.Pages[query.Page]; ok {
		return page, nil
	}
	return metadata.ListPage{Pagination: metadata.Pagination{Page: query.Page, PageSize: query.PageSize}}, nil
}

func (f *FakeAPI) Record(_ context.Context, _, id string) (metadata.Record, error) {
	if err := f.enter("Record"); err != nil {
		return nil, err
	}
	record, ok := f.RecordsMap[id]
	if !ok {
		return nil, fmt.Errorf("testsupport: no record %q", id)
	}
	return record, nil
}

func (f *FakeAPI) FieldOptions(_ context.Context, _, _, field string) ([]metadata.Option, error) {
	if err := f.enter("FieldOptions"); err != nil {
		return nil, err
	}
	return f.Options[field], nil
}

func (f *FakeAPI) Create(_ context.Context, _ string, payload map[string]any) (metadata.Record, error) {
	if err := f.enter("Create"); err != nil {
		return nil, err
	}
	f.LastPayload = payload
	record := metadata.Record{"id": "created"}
	for key, value := range payload {
		record[key] = value
	}
	return record, nil
}

func (f *FakeAPI) Update(_ context.Context, _, id string, payload map[string]any) (metadata.Record, error) {
	if err := f.enter("Update"); err != nil {
		return nil, err
	}
	f.LastPayload = payload
	record := metadata.Record{"id": id}
	for key, value := range payload {
		record[key] = value
	}
	return record, nil
}

func (f *FakeAPI) Delete(_ context.Context, _, id string) error {
	if err := f.enter("Delete"); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *FakeAPI) ReportMetadata(_ context.Context, _ string) (*metadata.ReportMetadata, error) {
	if err := f.enter("ReportMetadata"); err != nil {
		return nil, err
	}
	return f.ReportMeta, nil
}

func (f *FakeAPI) ExecuteReport(_ context.Context, _ string, query client.ReportQuery) (metadata.ListPage, error) {
	if err := f.enter("ExecuteReport"); err != nil {
		return metadata.ListPage{}, err
	}
	f.LastReportQuery = query
	return f.Results, nil
}

func (f *FakeAPI) ExportReport(_ context.Context, _ string, query client.ReportQuery) ([]byte, error) {
	if err := f.enter("ExportReport"); err != nil {
		return nil, err
	}
	f.LastReportQuery = query
	return f.ExportBlob, nil
}

func (f *FakeAPI) ReportFilterOptions(_ context.Context, _, filter string) ([]metadata.Option, error) {
	if err := f.enter("ReportFilterOptions"); err != nil {
		return nil, err
	}
	return f.Options[filter], nil
}

// MustLoadJSON reads a JSON fixture into out, failing the test on error.
func MustLoadJSON(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
