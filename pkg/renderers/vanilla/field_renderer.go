package vanilla

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/widgets"
)

const controlIDPrefix = "bo-"

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return controlIDPrefix + trimmed
}

// fieldControl holds everything the form template needs for one field. The
// control markup is built here so the templates stay layout-only.
type fieldControl struct {
	Name     string
	Label    string
	Widget   string
	Required bool
	Markup   string
	Help     string
	Errors   []string
}

func (r *Renderer) buildFieldControl(field metadata.FieldDescriptor, view render.FormView, options render.RenderOptions) fieldControl {
	widget := r.widgets.Resolve(field)
	value := render.EditValue(view.Values[field.Name], field.DataType)

	return fieldControl{
		Name:     field.Name,
		Label:    fieldLabel(field.DisplayName, field.Name),
		Widget:   widget,
		Required: field.IsRequired,
		Markup: controlMarkup(field, widget, value,
			view.Options[field.Name],
			view.PendingOptions[field.Name],
			options),
		Help:   field.HelpText,
		Errors: view.Errors[field.Name],
	}
}

func controlMarkup(field metadata.FieldDescriptor, widget, value string, options []metadata.Option, pending bool, renderOptions render.RenderOptions) string {
	messages := renderOptions.Messages
	if messages == nil {
		messages = render.DefaultMessages()
	}

	var b strings.Builder
	b.Grow(256)

	switch widget {
	case widgets.WidgetSelect:
		writeSelect(&b, field, value, options, pending, messages)

	case widgets.WidgetToggle:
		// A hidden false precedes the checkbox so unticked boxes still
		// post a value.
		fmt.Fprintf(&b, `<input type="hidden" name=%q value="false">`, field.Name)
		b.WriteByte('\n')
		fmt.Fprintf(&b, `<input type="checkbox" id=%q name=%q value="true"`, controlID(field.Name), field.Name)
		if value == "true" {
			b.WriteString(" checked")
		}
		writeCommonAttrs(&b, field)
		b.WriteString(">")

	case widgets.WidgetTextarea:
		fmt.Fprintf(&b, `<textarea id=%q name=%q rows="4"`, controlID(field.Name), field.Name)
		writePlaceholder(&b, field)
		if field.MaxLength > 0 {
			fmt.Fprintf(&b, ` maxlength="%d" data-char-counter="%s-counter"`, field.MaxLength, controlID(field.Name))
		}
		writeCommonAttrs(&b, field)
		b.WriteString(">")
		b.WriteString(html.EscapeString(value))
		b.WriteString("</textarea>")
		if field.MaxLength > 0 {
			b.WriteByte('\n')
			fmt.Fprintf(&b, `<small id="%s-counter" class="bo-char-counter">%d/%d</small>`,
				controlID(field.Name), len([]rune(value)), field.MaxLength)
		}

	case widgets.WidgetDate:
		writeInput(&b, "date", field, value)

	case widgets.WidgetDateTime:
		writeInput(&b, "datetime-local", field, value)

	case widgets.WidgetNumber:
		fmt.Fprintf(&b, `<input type="number" id=%q name=%q value=%q step=%q`,
			controlID(field.Name), field.Name, html.EscapeString(value), widgets.Step(field))
		writePlaceholder(&b, field)
		if v := field.Validation; v != nil {
			if v.Min != nil {
				fmt.Fprintf(&b, ` min=%q`, trimFloat(*v.Min))
			}
			if v.Max != nil {
				fmt.Fprintf(&b, ` max=%q`, trimFloat(*v.Max))
			}
		}
		writeCommonAttrs(&b, field)
		b.WriteString(">")

	case widgets.WidgetPassword:
		// Never echo the stored value back into the markup.
		writeInput(&b, "password", field, "")

	case widgets.WidgetEmail:
		writeInput(&b, "email", field, value)

	case widgets.WidgetReadonly:
		fmt.Fprintf(&b, `<input type="text" id=%q name=%q value=%q readonly>`,
			controlID(field.Name), field.Name, html.EscapeString(value))

	default:
		writeInput(&b, "text", field, value)
	}

	return b.String()
}

func writeSelect(b *strings.Builder, field metadata.FieldDescriptor, value string, options []metadata.Option, pending bool, messages *render.Messages) {
	if pending {
		// Options are still loading. Render a disabled placeholder so the
		// layout does not jump when they arrive.
		fmt.Fprintf(b, `<select id=%q name=%q disabled data-pending="true">`, controlID(field.Name), field.Name)
		fmt.Fprintf(b, `<option value="">%s</option>`, html.EscapeString(messages.LoadingOptions))
		b.WriteString("</select>")
		return
	}

	fmt.Fprintf(b, `<select id=%q name=%q`, controlID(field.Name), field.Name)
	writeCommonAttrs(b, field)
	b.WriteString(">\n")
	fmt.Fprintf(b, `<option value="">%s</option>`, html.EscapeString(messages.SelectOne))
	for _, option := range options {
		b.WriteByte('\n')
		fmt.Fprintf(b, `<option value=%q`, html.EscapeString(option.Value))
		if option.Value != "" && option.Value == value {
			b.WriteString(" selected")
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString("</option>")
	}
	b.WriteString("\n</select>")
}

func writeInput(b *strings.Builder, inputType string, field metadata.FieldDescriptor, value string) {
	fmt.Fprintf(b, `<input type=%q id=%q name=%q value=%q`,
		inputType, controlID(field.Name), field.Name, html.EscapeString(value))
	writePlaceholder(b, field)
	if v := field.Validation; v != nil {
		if v.MinLength != nil {
			fmt.Fprintf(b, ` minlength="%d"`, *v.MinLength)
		}
		if v.MaxLength != nil {
			fmt.Fprintf(b, ` maxlength="%d"`, *v.MaxLength)
		}
		if v.Pattern != "" {
			fmt.Fprintf(b, ` pattern=%q`, html.EscapeString(v.Pattern))
		}
	}
	if field.MaxLength > 0 && (field.Validation == nil || field.Validation.MaxLength == nil) {
		fmt.Fprintf(b, ` maxlength="%d"`, field.MaxLength)
	}
	writeCommonAttrs(b, field)
	b.WriteString(">")
}

func writePlaceholder(b *strings.Builder, field metadata.FieldDescriptor) {
	if field.Placeholder != "" {
		fmt.Fprintf(b, ` placeholder=%q`, html.EscapeString(field.Placeholder))
	}
}

func writeCommonAttrs(b *strings.Builder, field metadata.FieldDescriptor) {
	if field.IsRequired {
		b.WriteString(" required")
	}
	if field.IsReadOnly {
		b.WriteString(" disabled")
	}
}

func fieldLabel(displayName, name string) string {
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		return trimmed
	}
	return name
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
