package metadata

import (
	"fmt"
	"strings"
)

// FilterType is the resolved input kind for a report filter. It is a
// superset of the entity data types: select and multiselect never appear on
// entity fields.
type FilterType string

const (
	FilterText        FilterType = "text"
	FilterNumber      FilterType = "number"
	FilterDate        FilterType = "date"
	FilterDateTime    FilterType = "datetime"
	FilterBoolean     FilterType = "boolean"
	FilterSelect      FilterType = "select"
	FilterMultiSelect FilterType = "multiselect"
)

// ReportSummary is a catalog entry from the reports listing endpoint.
type ReportSummary struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// ReportFilterDescriptor describes one input on a report's filter panel.
// The type is kept as a plain string rather than being forced into the
// FilterType set: unknown types must still render (as free text), so the
// dispatch layer owns the fallback, not the normalizer.
type ReportFilterDescriptor struct {
	Name         string     `json:"name"`
	DisplayName  string     `json:"displayName"`
	FieldType    FilterType `json:"fieldType"`
	FilterType   string     `json:"filterType,omitempty"`
	Required     bool       `json:"required"`
	DefaultValue any        `json:"defaultValue,omitempty"`
	Options      []Option   `json:"options,omitempty"`
	Placeholder  string     `json:"placeholder,omitempty"`
	Description  string     `json:"description,omitempty"`
}

// ReportColumnDescriptor describes one column of a report result set.
type ReportColumnDescriptor struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	FieldType   string `json:"fieldType"`
	Format      string `json:"format,omitempty"`
	Align       string `json:"align,omitempty"`
	Sortable    bool   `json:"sortable,omitempty"`
}

// ReportMetadata is the canonical description of a parametrized, read-only
// result set.
type ReportMetadata struct {
	Name               string                   `json:"name"`
	DisplayName        string                   `json:"displayName"`
	Description        string                   `json:"description,omitempty"`
	Category           string                   `json:"category,omitempty"`
	Filters            []ReportFilterDescriptor `json:"filters"`
	Columns            []ReportColumnDescriptor `json:"columns"`
	SupportsPagination bool                     `json:"supportsPagination"`
	SupportsExport     bool                     `json:"supportsExport"`
	DefaultPageSize    int                      `json:"defaultPageSize,omitempty"`
}

// NormalizeReport reconciles a raw report metadata payload. Two drifts are
// handled: columns arrive under "fields" or "columns", and each column or
// filter carries its type under "fieldType" or the older "type". Export and
// pagination support default to true when the server omits them; omission
// means "unspecified", not "unsupported".
//
// Like Normalize, this is pure and idempotent, and only a missing report
// name is an error.
func NormalizeReport(raw map[string]any) (*ReportMetadata, error) {
	name := stringAt(raw, "name")
	if name == "" {
		return nil, fmt.Errorf("metadata: report payload missing name")
	}

	meta := &ReportMetadata{
		Name:               name,
		DisplayName:        firstString(raw, "displayName", "display_name"),
		Description:        stringAt(raw, "description"),
		Category:           stringAt(raw, "category"),
		SupportsPagination: boolOrDefault(raw, "supportsPagination", true),
		SupportsExport:     boolOrDefault(raw, "supportsExport", true),
		DefaultPageSize:    intAt(raw, "defaultPageSize"),
	}
	if meta.DisplayName == "" {
		meta.DisplayName = name
	}

	for _, entry := range listAt(raw, "filters") {
		filter, err := normalizeFilter(entry)
		if err != nil {
			return nil, fmt.Errorf("metadata: report %q: %w", name, err)
		}
		meta.Filters = append(meta.Filters, filter)
	}

	columns := listAt(raw, "fields")
	if len(columns) == 0 {
		columns = listAt(raw, "columns")
	}
	for _, entry := range columns {
		column, err := normalizeColumn(entry)
		if err != nil {
			return nil, fmt.Errorf("metadata: report %q: %w", name, err)
		}
		meta.Columns = append(meta.Columns, column)
	}

	return meta, nil
}

func normalizeFilter(raw map[string]any) (ReportFilterDescriptor, error) {
	name := stringAt(raw, "name")
	if name == "" {
		return ReportFilterDescriptor{}, fmt.Errorf("filter payload missing name")
	}

	filter := ReportFilterDescriptor{
		Name:        name,
		DisplayName: firstString(raw, "displayName", "display_name"),
		FieldType:   resolveFilterType(raw),
		FilterType:  stringAt(raw, "filterType"),
		Required:    boolAt(raw, "required"),
		Placeholder: stringAt(raw, "placeholder"),
		Description: stringAt(raw, "description"),
	}
	if filter.DisplayName == "" {
		filter.DisplayName = name
	}
	if v, ok := raw["defaultValue"]; ok && v != nil {
		filter.DefaultValue = v
	}

	for _, entry := range listAt(raw, "options") {
		label := stringAt(entry, "label")
		value := anyToString(entry["value"])
		if label == "" {
			label = value
		}
		filter.Options = append(filter.Options, Option{Value: value, Label: label})
	}

	return filter, nil
}

func normalizeColumn(raw map[string]any) (ReportColumnDescriptor, error) {
	name := stringAt(raw, "name")
	if name == "" {
		return ReportColumnDescriptor{}, fmt.Errorf("column payload missing name")
	}
	column := ReportColumnDescriptor{
		Name:        name,
		DisplayName: firstString(raw, "displayName", "display_name"),
		FieldType:   resolveColumnType(raw),
		Format:      stringAt(raw, "format"),
		Align:       stringAt(raw, "align"),
		Sortable:    boolAt(raw, "sortable"),
	}
	if column.DisplayName == "" {
		column.DisplayName = name
	}
	return column, nil
}

// resolveFilterType applies the fieldType-over-type precedence, defaulting
// to text. The value is lowercased but otherwise preserved so the dispatch
// fallback can see unrecognized types.
func resolveFilterType(raw map[string]any) FilterType {
	value := firstString(raw, "fieldType", "type")
	if value == "" {
		return FilterText
	}
	return FilterType(strings.ToLower(value))
}

func resolveColumnType(raw map[string]any) string {
	value := firstString(raw, "fieldType", "type")
	if value == "" {
		return "string"
	}
	return strings.ToLower(value)
}

func boolOrDefault(raw map[string]any, key string, fallback bool) bool {
	if value, ok := boolValue(raw[key]); ok {
		return value
	}
	return fallback
}

func anyToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
