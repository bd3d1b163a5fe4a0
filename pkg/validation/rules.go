// Package validation evaluates the declarative constraints carried by
// canonical field and filter descriptors before anything is sent over the
// network. Issues are surfaced inline; a payload that fails here never
// reaches the API.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Issue is a single inline validation message attached to a field or filter.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects issues for one form or filter panel submission.
type Result struct {
	Issues []Issue `json:"issues,omitempty"`
}

// Valid reports whether no issue was recorded.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

// Messages returns the issues keyed by field name, in the shape renderers
// consume for inline display.
func (r Result) Messages() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

func (r *Result) add(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// CheckField validates a single value against the field's declarative
// rules. Empty optional values pass; every other rule only applies to a
// present value.
func CheckField(field metadata.FieldDescriptor, value any) Result {
	var result Result
	checkFieldInto(&result, field, value)
	return result
}

// CheckForm validates every create/update-visible field of the form payload.
func CheckForm(meta *metadata.EntityMetadata, surface metadata.Surface, values map[string]any) Result {
	var result Result
	if meta == nil {
		return result
	}
	for _, field := range meta.FieldsFor(surface) {
		checkFieldInto(&result, field, values[field.Name])
	}
	return result
}

// CheckFilters validates a report's filter values. Only the required rule
// applies to filters; typed parsing is the dispatch layer's concern.
func CheckFilters(filters []metadata.ReportFilterDescriptor, values map[string]any) Result {
	var result Result
	for _, filter := range filters {
		if filter.Required && isEmpty(values[filter.Name]) {
			result.add(filter.Name, "%s is required", filter.DisplayName)
		}
	}
	return result
}

func checkFieldInto(result *Result, field metadata.FieldDescriptor, value any) {
	required := field.IsRequired || (field.Validation != nil && field.Validation.Required)
	if isEmpty(value) {
		if required {
			result.add(field.Name, "%s is required", field.DisplayName)
		}
		return
	}

	rules := field.Validation
	if rules == nil {
		return
	}

	if text, ok := value.(string); ok {
		length := len([]rune(text))
		if rules.MinLength != nil && length < *rules.MinLength {
			result.add(field.Name, "%s must have at least %d characters", field.DisplayName, *rules.MinLength)
		}
		if rules.MaxLength != nil && length > *rules.MaxLength {
			result.add(field.Name, "%s must have at most %d characters", field.DisplayName, *rules.MaxLength)
		}
		if rules.Pattern != "" {
			if re, err := regexp.Compile(rules.Pattern); err == nil && !re.MatchString(text) {
				result.add(field.Name, "%s has an invalid format", field.DisplayName)
			}
		}
	}

	if number, ok := numericValue(value); ok {
		if rules.Min != nil && number < *rules.Min {
			result.add(field.Name, "%s must be at least %v", field.DisplayName, *rules.Min)
		}
		if rules.Max != nil && number > *rules.Max {
			result.add(field.Name, "%s must be at most %v", field.DisplayName, *rules.Max)
		}
	}
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
