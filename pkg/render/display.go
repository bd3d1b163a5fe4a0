package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// maskLengthThreshold is the value length beyond which a string is treated
// as secret-looking and masked. A display-layer safeguard only: the value
// already reached the client.
const maskLengthThreshold = 100

const maskedValue = "••••••••"

// DisplayValue formats a raw record value for read-only presentation on a
// list, detail or report surface. Nil renders as a placeholder glyph, never
// an empty string.
func DisplayValue(value any, dataType metadata.DataType, messages *Messages) string {
	if messages == nil {
		messages = DefaultMessages()
	}
	if value == nil {
		return messages.Empty
	}

	switch dataType {
	case metadata.TypeBoolean:
		if truthy(value) {
			return messages.Yes
		}
		return messages.No

	case metadata.TypeDate:
		if ts, ok := parseTime(value); ok {
			return ts.Format("02/01/2006")
		}
		return fmt.Sprint(value)

	case metadata.TypeDateTime:
		if ts, ok := parseTime(value); ok {
			return ts.Format("02/01/2006 15:04")
		}
		return fmt.Sprint(value)

	case metadata.TypeDecimal:
		if n, ok := toFloat(value); ok {
			return strconv.FormatFloat(n, 'f', 2, 64)
		}
		return fmt.Sprint(value)

	case metadata.TypeInteger:
		if n, ok := toFloat(value); ok {
			return strconv.FormatInt(int64(n), 10)
		}
		return fmt.Sprint(value)

	default:
		return fmt.Sprint(value)
	}
}

// DisplayField formats a record's value for one field, preferring the
// <name>_display companion on relationship fields and masking values that
// look like secrets.
func DisplayField(record metadata.Record, field metadata.FieldDescriptor, messages *Messages) string {
	value := record.DisplayValue(field)
	if ShouldMask(field.Name, value) {
		return maskedValue
	}
	return DisplayValue(value, field.DataType, messages)
}

// ShouldMask reports whether a value should be hidden from read-only
// surfaces: the field name suggests a secret, or the value is implausibly
// long for tabular display. A UX nicety, not a confidentiality guarantee.
func ShouldMask(fieldName string, value any) bool {
	if strings.Contains(strings.ToLower(fieldName), "password") {
		return true
	}
	if text, ok := value.(string); ok && len(text) > maskLengthThreshold {
		return true
	}
	return false
}

// EditValue normalizes a raw value into the string an editable control is
// seeded with: dates cut to day precision, datetimes to minute precision,
// everything else via its natural string form.
func EditValue(value any, dataType metadata.DataType) string {
	if value == nil {
		return ""
	}
	switch dataType {
	case metadata.TypeDate:
		if ts, ok := parseTime(value); ok {
			return ts.Format("2006-01-02")
		}
	case metadata.TypeDateTime:
		if ts, ok := parseTime(value); ok {
			return ts.Format("2006-01-02T15:04")
		}
	case metadata.TypeBoolean:
		if truthy(value) {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(value)
}

// ParseInput converts a submitted string back into the typed value the API
// expects for the given data type. Integer parsing truncates; decimal keeps
// the fraction. Empty strings return nil so the caller decides between
// "absent" and "cleared".
func ParseInput(raw string, dataType metadata.DataType) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	switch dataType {
	case metadata.TypeInteger:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("render: parse integer %q: %w", raw, err)
		}
		return int64(n), nil

	case metadata.TypeDecimal:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("render: parse decimal %q: %w", raw, err)
		}
		return n, nil

	case metadata.TypeBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "on", "1":
			return true, nil
		case "false", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("render: parse boolean %q", raw)

	case metadata.TypeDate:
		ts, err := time.Parse("2006-01-02", trimmed)
		if err != nil {
			return nil, fmt.Errorf("render: parse date %q: %w", raw, err)
		}
		return ts.Format("2006-01-02"), nil

	case metadata.TypeDateTime:
		ts, ok := parseTime(trimmed)
		if !ok {
			return nil, fmt.Errorf("render: parse datetime %q", raw)
		}
		return ts.Truncate(time.Minute).Format("2006-01-02T15:04"), nil

	default:
		return trimmed, nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
