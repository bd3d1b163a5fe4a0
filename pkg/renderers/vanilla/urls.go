package vanilla

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func basePath(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

func entityPath(base, entity string) string {
	return basePath(base) + "/crud/" + url.PathEscape(entity)
}

func reportPath(base, report string) string {
	return basePath(base) + "/reports/" + url.PathEscape(report)
}

// listQuery builds the query string for a list page link, omitting values
// that match their defaults so URLs stay short.
func listQuery(page int, search, orderBy string, ascending bool) string {
	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		values.Set("search", search)
	}
	if orderBy != "" {
		values.Set("orderBy", orderBy)
		values.Set("ascending", strconv.FormatBool(ascending))
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// reportQuery builds the query string for a report result link. The active
// filter values ride along so paging and sorting re-execute the same query
// instead of an empty one.
func reportQuery(page int, filters map[string]any, sortBy string, ascending bool) string {
	values := url.Values{}
	for name, value := range filters {
		switch v := value.(type) {
		case nil:
		case string:
			if v != "" {
				values.Set(name, v)
			}
		case []string:
			for _, entry := range v {
				if entry != "" {
					values.Add(name, entry)
				}
			}
		case []any:
			for _, entry := range v {
				if text, ok := entry.(string); ok && text != "" {
					values.Add(name, text)
				}
			}
		default:
			values.Set(name, fmt.Sprint(v))
		}
	}
	// Page 1 is spelled out: a report URL with any query string runs the
	// report, a bare one only shows the filter panel.
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if sortBy != "" {
		values.Set("orderBy", sortBy)
		values.Set("ascending", strconv.FormatBool(ascending))
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}
