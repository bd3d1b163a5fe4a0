// Package uischema loads and applies UI schema overrides that enrich the
// server-delivered entity metadata with local presentation tweaks: labels,
// widgets, placeholders, field visibility and catalog icons. The metadata
// normalizer stays unaware of these overlays; callers opt in by decorating
// the canonical metadata after it is fetched.
package uischema

import "strings"

// Store keeps the parsed overrides from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	entities map[string]EntityOverride
	reports  map[string]ReportOverride
}

// EntityOverride carries the presentation overrides for one entity.
type EntityOverride struct {
	Entity      string
	Source      string
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
	// Icon is inline SVG markup, sanitized at load time.
	Icon   string                   `json:"icon" yaml:"icon"`
	Fields map[string]FieldOverride `json:"fields" yaml:"fields"`
}

// FieldOverride customises how a single field is presented. Pointer fields
// distinguish "not set" from an explicit zero value.
type FieldOverride struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Widget      string `json:"widget,omitempty" yaml:"widget,omitempty"`
	Hidden      *bool  `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	ListOrder   *int   `json:"listOrder,omitempty" yaml:"listOrder,omitempty"`
	FormOrder   *int   `json:"formOrder,omitempty" yaml:"formOrder,omitempty"`
}

// ReportOverride carries the presentation overrides for one report.
type ReportOverride struct {
	Report      string
	Source      string
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Category    string `json:"category" yaml:"category"`
}

// Entity returns the override for the supplied entity name.
func (s *Store) Entity(name string) (EntityOverride, bool) {
	if s == nil {
		return EntityOverride{}, false
	}
	override, ok := s.entities[strings.TrimSpace(name)]
	return override, ok
}

// Report returns the override for the supplied report name.
func (s *Store) Report(name string) (ReportOverride, bool) {
	if s == nil {
		return ReportOverride{}, false
	}
	override, ok := s.reports[strings.TrimSpace(name)]
	return override, ok
}

// Empty reports whether the store holds any overrides.
func (s *Store) Empty() bool {
	return s == nil || (len(s.entities) == 0 && len(s.reports) == 0)
}
