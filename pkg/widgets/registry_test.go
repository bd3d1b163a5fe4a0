package widgets

import (
	"testing"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  metadata.FieldDescriptor
		expect string
	}{
		{
			name:   "relationship select",
			field:  metadata.FieldDescriptor{Name: "store_id", DataType: metadata.TypeUUID, HasRelationship: true},
			expect: WidgetSelect,
		},
		{
			name:   "options select beats boolean toggle",
			field:  metadata.FieldDescriptor{Name: "status", DataType: metadata.TypeBoolean, HasOptions: true},
			expect: WidgetSelect,
		},
		{
			name:   "boolean toggle",
			field:  metadata.FieldDescriptor{Name: "active", DataType: metadata.TypeBoolean},
			expect: WidgetToggle,
		},
		{
			name:   "text multiline",
			field:  metadata.FieldDescriptor{Name: "notes", DataType: metadata.TypeText},
			expect: WidgetTextarea,
		},
		{
			name:   "date calendar",
			field:  metadata.FieldDescriptor{Name: "sold_at", DataType: metadata.TypeDate},
			expect: WidgetDate,
		},
		{
			name:   "datetime",
			field:  metadata.FieldDescriptor{Name: "created_at", DataType: metadata.TypeDateTime},
			expect: WidgetDateTime,
		},
		{
			name:   "integer number",
			field:  metadata.FieldDescriptor{Name: "quantity", DataType: metadata.TypeInteger},
			expect: WidgetNumber,
		},
		{
			name:   "decimal number",
			field:  metadata.FieldDescriptor{Name: "total", DataType: metadata.TypeDecimal},
			expect: WidgetNumber,
		},
		{
			name:   "readonly uuid",
			field:  metadata.FieldDescriptor{Name: "id", DataType: metadata.TypeUUID, IsReadOnly: true},
			expect: WidgetReadonly,
		},
		{
			name:   "editable uuid falls through to input",
			field:  metadata.FieldDescriptor{Name: "external_id", DataType: metadata.TypeUUID},
			expect: WidgetInput,
		},
		{
			name:   "password heuristic",
			field:  metadata.FieldDescriptor{Name: "user_password", DataType: metadata.TypeString},
			expect: WidgetPassword,
		},
		{
			name:   "email heuristic",
			field:  metadata.FieldDescriptor{Name: "contact_email", DataType: metadata.TypeString},
			expect: WidgetEmail,
		},
		{
			name:   "plain string input",
			field:  metadata.FieldDescriptor{Name: "nome", DataType: metadata.TypeString},
			expect: WidgetInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reg.Resolve(tc.field); got != tc.expect {
				t.Fatalf("Resolve(%s) = %q, want %q", tc.field.Name, got, tc.expect)
			}
		})
	}
}

func TestResolve_CustomRuleOutranksBuiltins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("currency", 200, func(field metadata.FieldDescriptor) bool {
		return field.Name == "total"
	})

	field := metadata.FieldDescriptor{Name: "total", DataType: metadata.TypeDecimal}
	if got := reg.Resolve(field); got != "currency" {
		t.Fatalf("custom high-priority rule must win, got %q", got)
	}
}

func TestResolve_ExplicitHintBypassesMatchers(t *testing.T) {
	reg := NewRegistry()

	field := metadata.FieldDescriptor{Name: "notes", DataType: metadata.TypeString, Widget: WidgetTextarea}
	if got := reg.Resolve(field); got != WidgetTextarea {
		t.Fatalf("hinted field resolved to %q, want %q", got, WidgetTextarea)
	}

	field.Widget = "  "
	if got := reg.Resolve(field); got != WidgetInput {
		t.Fatalf("blank hint must fall through to matchers, got %q", got)
	}
}

func TestStep(t *testing.T) {
	if got := Step(metadata.FieldDescriptor{DataType: metadata.TypeDecimal}); got != "0.01" {
		t.Fatalf("decimal step = %q, want 0.01", got)
	}
	if got := Step(metadata.FieldDescriptor{DataType: metadata.TypeInteger}); got != "1" {
		t.Fatalf("integer step = %q, want 1", got)
	}
}

func TestFilterResolve(t *testing.T) {
	reg := NewFilterRegistry()

	cases := []struct {
		fieldType metadata.FilterType
		expect    string
	}{
		{metadata.FilterText, FilterWidgetText},
		{metadata.FilterNumber, FilterWidgetNumber},
		{metadata.FilterDate, FilterWidgetDate},
		{metadata.FilterDateTime, FilterWidgetDateTime},
		{metadata.FilterBoolean, FilterWidgetBoolean},
		{metadata.FilterSelect, FilterWidgetSelect},
		{metadata.FilterMultiSelect, FilterWidgetMultiSelect},
		{metadata.FilterType("string"), FilterWidgetText},
		// Unknown types degrade to free text instead of failing to render.
		{metadata.FilterType("geo_fence"), FilterWidgetText},
	}

	for _, tc := range cases {
		filter := metadata.ReportFilterDescriptor{Name: "f", FieldType: tc.fieldType}
		if got := reg.Resolve(filter); got != tc.expect {
			t.Errorf("Resolve(%q) = %q, want %q", tc.fieldType, got, tc.expect)
		}
	}
}
