// Package widgets maps canonical field and filter descriptors to the named
// controls renderers know how to draw. Resolution is a priority-ordered
// matcher table with a guaranteed fallback so dispatch can never fail
// closed on an unknown type.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Built-in widget identifiers for entity fields.
const (
	WidgetSelect   = "select"
	WidgetToggle   = "toggle"
	WidgetTextarea = "textarea"
	WidgetDate     = "date"
	WidgetDateTime = "datetime"
	WidgetNumber   = "number"
	WidgetPassword = "password"
	WidgetEmail    = "email"
	WidgetReadonly = "readonly"
	WidgetInput    = "input"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field metadata.FieldDescriptor) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for entity fields. Higher priority wins; ties
// fall back to registration order. The zero value is unusable; construct
// with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	rules    []rule
	fallback string
}

// NewRegistry constructs a registry with the built-in matchers registered
// and WidgetInput as the fallback.
func NewRegistry() *Registry {
	reg := &Registry{fallback: WidgetInput}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority.
// Higher priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit hint on the
// descriptor, typically set by UI schema decoration, bypasses the matcher
// table. Every field resolves: when no matcher claims it, the fallback
// widget is returned.
func (r *Registry) Resolve(field metadata.FieldDescriptor) string {
	if hint := strings.TrimSpace(field.Widget); hint != "" {
		return hint
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	fallback := r.fallback
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return fallback
}

func (r *Registry) registerBuiltins() {
	// Option-backed fields outrank every data-type rule: a boolean that is
	// relationship-backed still renders as a select.
	r.Register(WidgetSelect, 100, func(field metadata.FieldDescriptor) bool {
		return field.OptionBacked()
	})

	r.Register(WidgetToggle, 90, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeBoolean
	})

	r.Register(WidgetTextarea, 85, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeText
	})

	r.Register(WidgetDate, 80, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeDate
	})

	r.Register(WidgetDateTime, 80, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeDateTime
	})

	r.Register(WidgetNumber, 75, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeInteger || field.DataType == metadata.TypeDecimal
	})

	// UUIDs are identifiers; they stay opaque unless the schema explicitly
	// marks them editable.
	r.Register(WidgetReadonly, 70, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeUUID && field.IsReadOnly
	})

	// Semantic subtype heuristics on plain strings, inferred from the
	// field's own name.
	r.Register(WidgetPassword, 60, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeString && strings.Contains(strings.ToLower(field.Name), "password")
	})
	r.Register(WidgetEmail, 55, func(field metadata.FieldDescriptor) bool {
		return field.DataType == metadata.TypeString && strings.Contains(strings.ToLower(field.Name), "email")
	})
}

// Step returns the numeric input step for a field: integers move by whole
// units, decimals by cents.
func Step(field metadata.FieldDescriptor) string {
	if field.DataType == metadata.TypeDecimal {
		return "0.01"
	}
	return "1"
}
