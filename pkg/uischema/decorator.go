package uischema

import (
	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Decorate returns a copy of the entity metadata with the store's overrides
// applied. The input is never mutated; with no matching override the copy is
// equivalent to the input.
func (s *Store) Decorate(meta *metadata.EntityMetadata) *metadata.EntityMetadata {
	if meta == nil {
		return nil
	}

	out := *meta
	out.Fields = append([]metadata.FieldDescriptor(nil), meta.Fields...)

	override, ok := s.Entity(meta.Name)
	if !ok {
		return &out
	}

	if override.DisplayName != "" {
		out.DisplayName = override.DisplayName
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.Icon != "" {
		out.Icon = override.Icon
	}

	for i := range out.Fields {
		fieldOverride, ok := override.Fields[out.Fields[i].Name]
		if !ok {
			continue
		}
		applyFieldOverride(&out.Fields[i], fieldOverride)
	}

	return &out
}

func applyFieldOverride(field *metadata.FieldDescriptor, override FieldOverride) {
	if override.Label != "" {
		field.DisplayName = override.Label
	}
	if override.Widget != "" {
		field.Widget = override.Widget
	}
	if override.Placeholder != "" {
		field.Placeholder = override.Placeholder
	}
	if override.HelpText != "" {
		field.HelpText = override.HelpText
	}
	if override.Hidden != nil && *override.Hidden {
		field.ShowInList = false
		field.ShowInCreate = false
		field.ShowInUpdate = false
		field.ShowInDetail = false
	}
	if override.ListOrder != nil {
		field.ListOrder = *override.ListOrder
	}
	if override.FormOrder != nil {
		field.FormOrder = *override.FormOrder
	}
}

// DecorateSummaries applies display-name, description and sanitized icon
// overrides to a catalog listing.
func (s *Store) DecorateSummaries(entities []metadata.EntitySummary) []metadata.EntitySummary {
	if len(entities) == 0 {
		return entities
	}
	out := append([]metadata.EntitySummary(nil), entities...)
	for i := range out {
		override, ok := s.Entity(out[i].Name)
		if !ok {
			continue
		}
		if override.DisplayName != "" {
			out[i].DisplayName = override.DisplayName
		}
		if override.Description != "" {
			out[i].Description = override.Description
		}
		if override.Icon != "" {
			out[i].Icon = override.Icon
		}
	}
	return out
}

// DecorateReports applies overrides to a report catalog listing.
func (s *Store) DecorateReports(reports []metadata.ReportSummary) []metadata.ReportSummary {
	if len(reports) == 0 {
		return reports
	}
	out := append([]metadata.ReportSummary(nil), reports...)
	for i := range out {
		override, ok := s.Report(out[i].Name)
		if !ok {
			continue
		}
		if override.DisplayName != "" {
			out[i].DisplayName = override.DisplayName
		}
		if override.Description != "" {
			out[i].Description = override.Description
		}
		if override.Category != "" {
			out[i].Category = override.Category
		}
		if override.Icon != "" {
			out[i].Icon = override.Icon
		}
	}
	return out
}
