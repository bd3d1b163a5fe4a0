package vanilla

import (
	"fmt"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
)

func (r *Renderer) listContext(view render.ListView, options render.RenderOptions) (map[string]any, error) {
	if view.Entity == nil {
		return nil, fmt.Errorf("list view has no entity metadata")
	}

	fields := view.Entity.FieldsFor(metadata.SurfaceList)
	base := entityPath(options.BasePath, view.Entity.Name)
	messages := options.Messages
	if messages == nil {
		messages = render.DefaultMessages()
	}

	columns := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		sorted := view.OrderBy == field.Name
		// Clicking an already-sorted column flips the direction and keeps
		// the current page.
		ascending := true
		if sorted {
			ascending = !view.Ascending
		}
		indicator := ""
		if sorted {
			if view.Ascending {
				indicator = "▲"
			} else {
				indicator = "▼"
			}
		}
		columns = append(columns, map[string]any{
			"name":      field.Name,
			"label":     fieldLabel(field.DisplayName, field.Name),
			"sorted":    sorted,
			"indicator": indicator,
			"sort_url":  base + listQuery(view.Page.Pagination.Page, view.Search, field.Name, ascending),
		})
	}

	rows := make([]map[string]any, 0, len(view.Page.Records))
	for _, record := range view.Page.Records {
		id, _ := record["id"].(string)
		cells := make([]string, 0, len(fields))
		for _, field := range fields {
			cells = append(cells, render.DisplayField(record, field, messages))
		}
		row := map[string]any{
			"id":    id,
			"cells": cells,
		}
		if id != "" {
			row["detail_url"] = base + "/" + id + "/detail"
			if view.Capabilities.CanUpdate {
				row["edit_url"] = base + "/" + id
			}
			if view.Capabilities.CanDelete {
				row["delete_url"] = base + "/" + id + "/delete"
			}
		}
		rows = append(rows, row)
	}

	return map[string]any{
		"title":      view.Entity.DisplayName,
		"entity":     view.Entity.Name,
		"columns":    columns,
		"rows":       rows,
		"loading":    view.Loading,
		"search":     view.Search,
		"search_url": base,
		"can_create": view.Capabilities.CanCreate,
		"create_url": base + "/new",
		"pagination": paginationContext(base, view.Page.Pagination, view.Search, view.OrderBy, view.Ascending),
	}, nil
}

func paginationContext(base string, p metadata.Pagination, search, orderBy string, ascending bool) map[string]any {
	return paginationStrip(p, func(page int) string {
		return base + listQuery(page, search, orderBy, ascending)
	})
}

// paginationStrip builds the windowed page strip: at most five numbered
// links centred on the current page, plus previous/next. pageURL supplies
// the link for a page so list and report state survive navigation.
func paginationStrip(p metadata.Pagination, pageURL func(page int) string) map[string]any {
	if p.TotalPages <= 1 {
		return nil
	}

	pages := make([]map[string]any, 0, 5)
	for _, page := range render.PageWindow(p.Page, p.TotalPages) {
		pages = append(pages, map[string]any{
			"number":  page,
			"current": page == p.Page,
			"url":     pageURL(page),
		})
	}

	ctx := map[string]any{
		"page":        p.Page,
		"total_pages": p.TotalPages,
		"total_count": p.TotalCount,
		"pages":       pages,
	}
	if p.Page > 1 {
		ctx["prev_url"] = pageURL(p.Page - 1)
	}
	if p.Page < p.TotalPages {
		ctx["next_url"] = pageURL(p.Page + 1)
	}
	return ctx
}
