package vanilla

import (
	"fmt"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
)

func (r *Renderer) detailContext(view render.DetailView, options render.RenderOptions) (map[string]any, error) {
	if view.Entity == nil {
		return nil, fmt.Errorf("detail view has no entity metadata")
	}

	messages := options.Messages
	if messages == nil {
		messages = render.DefaultMessages()
	}

	fields := view.Entity.FieldsFor(metadata.SurfaceDetail)
	entries := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, map[string]any{
			"name":  field.Name,
			"label": fieldLabel(field.DisplayName, field.Name),
			"value": render.DisplayField(view.Record, field, messages),
		})
	}

	base := entityPath(options.BasePath, view.Entity.Name)
	ctx := map[string]any{
		"title":    view.Entity.DisplayName,
		"entity":   view.Entity.Name,
		"entries":  entries,
		"back_url": base,
	}
	if view.RecordID != "" {
		if view.Capabilities.CanUpdate {
			ctx["edit_url"] = base + "/" + view.RecordID
		}
		if view.Capabilities.CanDelete {
			ctx["delete_url"] = base + "/" + view.RecordID + "/delete"
		}
	}
	return ctx, nil
}

func (r *Renderer) catalogContext(view render.CatalogView, options render.RenderOptions) (map[string]any, error) {
	entities := make([]map[string]any, 0, len(view.Entities))
	for _, entity := range view.Entities {
		entities = append(entities, map[string]any{
			"name":        entity.Name,
			"label":       fieldLabel(entity.DisplayName, entity.Name),
			"description": entity.Description,
			"url":         entityPath(options.BasePath, entity.Name),
		})
	}

	reports := make([]map[string]any, 0, len(view.Reports))
	for _, report := range view.Reports {
		reports = append(reports, map[string]any{
			"name":        report.Name,
			"label":       fieldLabel(report.DisplayName, report.Name),
			"description": report.Description,
			"category":    report.Category,
			"url":         reportPath(options.BasePath, report.Name),
		})
	}

	return map[string]any{
		"title":    "Dashboard",
		"entities": entities,
		"reports":  reports,
	}, nil
}
