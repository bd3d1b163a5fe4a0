package vanilla

import (
	"fmt"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
)

func (r *Renderer) formContext(view render.FormView, options render.RenderOptions) (map[string]any, error) {
	if view.Entity == nil {
		return nil, fmt.Errorf("form view has no entity metadata")
	}

	surface := view.Surface
	if surface == "" {
		if view.RecordID == "" {
			surface = metadata.SurfaceCreate
		} else {
			surface = metadata.SurfaceUpdate
		}
	}

	fields := view.Entity.FieldsFor(surface)
	controls := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		control := r.buildFieldControl(field, view, options)
		controls = append(controls, map[string]any{
			"name":     control.Name,
			"label":    control.Label,
			"widget":   control.Widget,
			"required": control.Required,
			"markup":   control.Markup,
			"help":     control.Help,
			"errors":   control.Errors,
		})
	}

	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]string{
			"name":  field.Name,
			"value": field.Value,
		})
	}

	title := view.Entity.DisplayName
	action := entityPath(options.BasePath, view.Entity.Name)
	if view.RecordID != "" {
		action += "/" + view.RecordID
	} else {
		action += "/new"
	}

	return map[string]any{
		"title":      title,
		"entity":     view.Entity.Name,
		"surface":    string(surface),
		"action":     action,
		"record_id":  view.RecordID,
		"fields":     controls,
		"hidden":     hidden,
		"form_error": view.FormError,
		"submitting": view.Submitting,
		"cancel_url": entityPath(options.BasePath, view.Entity.Name),
	}, nil
}
