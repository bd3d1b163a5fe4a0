package vanilla

import (
	"sort"
	"strings"

	"github.com/goliatone/go-backoffice/pkg/render"
)

// chromeContext carries the page chrome the layout template needs: theme
// metadata and the CSS custom-property block derived from it.
func chromeContext(options render.RenderOptions) map[string]any {
	messages := options.Messages
	if messages == nil {
		messages = render.DefaultMessages()
	}

	ctx := map[string]any{
		"base_path": basePath(options.BasePath),
		"messages": map[string]string{
			"no_records": messages.NoRecords,
			"previous":   messages.Previous,
			"next":       messages.Next,
		},
	}

	cfg := options.Theme
	if cfg == nil {
		return ctx
	}

	ctx["theme"] = cfg.Theme
	ctx["variant"] = cfg.Variant
	if style := cssVarsStyle(cfg.CSSVars); style != "" {
		ctx["css_vars"] = style
	}
	if cfg.AssetURL != nil {
		if href := cfg.AssetURL(StylesheetName); href != "" {
			ctx["stylesheet"] = href
		}
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
