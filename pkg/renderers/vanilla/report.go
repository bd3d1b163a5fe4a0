package vanilla

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/widgets"
)

func (r *Renderer) reportContext(view render.ReportView, options render.RenderOptions) (map[string]any, error) {
	if view.Report == nil {
		return nil, fmt.Errorf("report view has no report metadata")
	}

	messages := options.Messages
	if messages == nil {
		messages = render.DefaultMessages()
	}

	filters := make([]map[string]any, 0, len(view.Report.Filters))
	for _, filter := range view.Report.Filters {
		widget := r.filters.Resolve(filter)
		filters = append(filters, map[string]any{
			"name":     filter.Name,
			"label":    fieldLabel(filter.DisplayName, filter.Name),
			"widget":   widget,
			"required": filter.Required,
			"markup": filterControlMarkup(filter, widget,
				view.FilterValues[filter.Name],
				view.FilterOptions[filter.Name],
				messages),
			"errors": view.Errors[filter.Name],
		})
	}

	base := reportPath(options.BasePath, view.Report.Name)
	ctx := map[string]any{
		"title":        fieldLabel(view.Report.DisplayName, view.Report.Name),
		"report":       view.Report.Name,
		"description":  view.Report.Description,
		"filters":      filters,
		"action":       base,
		"executing":    view.Executing,
		"can_export":   view.Report.SupportsExport,
		"export_url":   base + "/export",
		"has_results":  view.Results != nil,
	}

	if view.Results != nil {
		ctx["columns"], ctx["rows"] = reportTable(base, view.Report, *view.Results, view, messages)
		if view.Report.SupportsPagination {
			ctx["pagination"] = paginationStrip(view.Results.Pagination, func(page int) string {
				return base + reportQuery(page, view.FilterValues, view.SortBy, view.SortDirection != "desc")
			})
		}
	}
	return ctx, nil
}

func reportTable(base string, report *metadata.ReportMetadata, page metadata.ListPage, view render.ReportView, messages *render.Messages) ([]map[string]any, []map[string]any) {
	columns := make([]map[string]any, 0, len(report.Columns))
	for _, column := range report.Columns {
		sorted := view.SortBy == column.Name
		// Clicking an already-sorted column flips the direction and keeps
		// the current page and filters.
		ascending := true
		if sorted && view.SortDirection != "desc" {
			ascending = false
		}
		indicator := ""
		if sorted {
			if view.SortDirection == "desc" {
				indicator = "▼"
			} else {
				indicator = "▲"
			}
		}
		entry := map[string]any{
			"name":      column.Name,
			"label":     fieldLabel(column.DisplayName, column.Name),
			"align":     column.Align,
			"sortable":  column.Sortable,
			"sorted":    sorted,
			"indicator": indicator,
		}
		if column.Sortable {
			entry["sort_url"] = base + reportQuery(page.Pagination.Page, view.FilterValues, column.Name, ascending)
		}
		columns = append(columns, entry)
	}

	rows := make([]map[string]any, 0, len(page.Records))
	for _, record := range page.Records {
		cells := make([]string, 0, len(report.Columns))
		for _, column := range report.Columns {
			cells = append(cells, render.DisplayValue(record[column.Name], metadata.DataType(column.FieldType), messages))
		}
		rows = append(rows, map[string]any{"cells": cells})
	}
	return columns, rows
}

func filterControlMarkup(filter metadata.ReportFilterDescriptor, widget string, value any, resolved []metadata.Option, messages *render.Messages) string {
	id := controlID(filter.Name)
	options := filter.Options
	if len(resolved) > 0 {
		options = resolved
	}

	var b strings.Builder
	b.Grow(128)

	switch widget {
	case widgets.FilterWidgetSelect:
		fmt.Fprintf(&b, `<select id=%q name=%q`, id, filter.Name)
		if filter.Required {
			b.WriteString(" required")
		}
		b.WriteString(">\n")
		fmt.Fprintf(&b, `<option value="">%s</option>`, html.EscapeString(messages.SelectOne))
		selected := stringValue(value)
		for _, option := range options {
			b.WriteByte('\n')
			fmt.Fprintf(&b, `<option value=%q`, html.EscapeString(option.Value))
			if option.Value != "" && option.Value == selected {
				b.WriteString(" selected")
			}
			b.WriteString(">")
			b.WriteString(html.EscapeString(option.Label))
			b.WriteString("</option>")
		}
		b.WriteString("\n</select>")

	case widgets.FilterWidgetMultiSelect:
		fmt.Fprintf(&b, `<select id=%q name=%q multiple`, id, filter.Name)
		if filter.Required {
			b.WriteString(" required")
		}
		b.WriteString(">")
		selected := stringValues(value)
		for _, option := range options {
			b.WriteByte('\n')
			fmt.Fprintf(&b, `<option value=%q`, html.EscapeString(option.Value))
			if selected[option.Value] {
				b.WriteString(" selected")
			}
			b.WriteString(">")
			b.WriteString(html.EscapeString(option.Label))
			b.WriteString("</option>")
		}
		b.WriteString("\n</select>")

	case widgets.FilterWidgetBoolean:
		// A tri-state select: unset, yes, no.
		fmt.Fprintf(&b, `<select id=%q name=%q>`, id, filter.Name)
		current := stringValue(value)
		fmt.Fprintf(&b, `<option value="">%s</option>`, html.EscapeString(messages.SelectOne))
		fmt.Fprintf(&b, `<option value="true"%s>%s</option>`, selectedAttr(current == "true"), html.EscapeString(messages.Yes))
		fmt.Fprintf(&b, `<option value="false"%s>%s</option>`, selectedAttr(current == "false"), html.EscapeString(messages.No))
		b.WriteString("</select>")

	case widgets.FilterWidgetNumber:
		writeFilterInput(&b, "number", id, filter, stringValue(value))

	case widgets.FilterWidgetDate:
		writeFilterInput(&b, "date", id, filter, stringValue(value))

	case widgets.FilterWidgetDateTime:
		writeFilterInput(&b, "datetime-local", id, filter, stringValue(value))

	default:
		writeFilterInput(&b, "text", id, filter, stringValue(value))
	}

	return b.String()
}

func writeFilterInput(b *strings.Builder, inputType, id string, filter metadata.ReportFilterDescriptor, value string) {
	fmt.Fprintf(b, `<input type=%q id=%q name=%q value=%q`, inputType, id, filter.Name, html.EscapeString(value))
	if filter.Placeholder != "" {
		fmt.Fprintf(b, ` placeholder=%q`, html.EscapeString(filter.Placeholder))
	}
	if filter.Required {
		b.WriteString(" required")
	}
	b.WriteString(">")
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func stringValues(value any) map[string]bool {
	out := make(map[string]bool)
	switch v := value.(type) {
	case []string:
		for _, entry := range v {
			out[entry] = true
		}
	case []any:
		for _, entry := range v {
			if text, ok := entry.(string); ok {
				out[text] = true
			}
		}
	case string:
		if v != "" {
			out[v] = true
		}
	}
	return out
}
