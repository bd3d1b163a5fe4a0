package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Filter widget identifiers. Text doubles as the fallback for types the
// dispatch table does not recognize: a degraded free-text input beats a
// blocked filter panel.
const (
	FilterWidgetText        = "filter-text"
	FilterWidgetNumber      = "filter-number"
	FilterWidgetDate        = "filter-date"
	FilterWidgetDateTime    = "filter-datetime"
	FilterWidgetBoolean     = "filter-boolean"
	FilterWidgetSelect      = "filter-select"
	FilterWidgetMultiSelect = "filter-multiselect"
)

// FilterMatcher decides whether a filter widget handles the descriptor.
type FilterMatcher func(filter metadata.ReportFilterDescriptor) bool

type filterRule struct {
	name     string
	priority int
	match    FilterMatcher
	order    int
}

// FilterRegistry selects widgets for report filters. It mirrors Registry
// but keys on the filter's resolved type and adds the select/multiselect
// variants entity fields never carry.
type FilterRegistry struct {
	mu    sync.RWMutex
	rules []filterRule
}

// NewFilterRegistry constructs a registry with the built-in filter matchers.
func NewFilterRegistry() *FilterRegistry {
	reg := &FilterRegistry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a filter matcher with the provided name and priority.
func (r *FilterRegistry) Register(name string, priority int, matcher FilterMatcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, filterRule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a filter, falling back to the free
// text input for unrecognized types.
func (r *FilterRegistry) Resolve(filter metadata.ReportFilterDescriptor) string {
	r.mu.RLock()
	rules := append([]filterRule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(filter) {
			return entry.name
		}
	}
	return FilterWidgetText
}

func (r *FilterRegistry) registerBuiltins() {
	typeIs := func(types ...metadata.FilterType) FilterMatcher {
		return func(filter metadata.ReportFilterDescriptor) bool {
			for _, t := range types {
				if filter.FieldType == t {
					return true
				}
			}
			return false
		}
	}

	r.Register(FilterWidgetMultiSelect, 90, typeIs(metadata.FilterMultiSelect))
	r.Register(FilterWidgetSelect, 85, typeIs(metadata.FilterSelect))
	r.Register(FilterWidgetBoolean, 80, typeIs(metadata.FilterBoolean))
	r.Register(FilterWidgetDateTime, 75, typeIs(metadata.FilterDateTime))
	r.Register(FilterWidgetDate, 70, typeIs(metadata.FilterDate))
	r.Register(FilterWidgetNumber, 65, typeIs(metadata.FilterNumber))
	r.Register(FilterWidgetText, 60, typeIs(metadata.FilterText, metadata.FilterType("string")))
}
