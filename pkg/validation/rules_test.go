package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/validation"
)

func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestCheckFieldRequired(t *testing.T) {
	field := metadata.FieldDescriptor{Name: "nome", DisplayName: "Nome", IsRequired: true}

	if result := validation.CheckField(field, ""); result.Valid() {
		t.Fatalf("empty required field must produce an issue")
	}
	if result := validation.CheckField(field, nil); result.Valid() {
		t.Fatalf("nil required field must produce an issue")
	}
	if result := validation.CheckField(field, "ok"); !result.Valid() {
		t.Fatalf("filled required field must pass, got %+v", result.Issues)
	}
}

func TestCheckFieldOptionalEmptySkipsRules(t *testing.T) {
	field := metadata.FieldDescriptor{
		Name:        "codigo",
		DisplayName: "Código",
		Validation:  &metadata.Validation{MinLength: intPtr(5), Pattern: `^[A-Z]+$`},
	}
	if result := validation.CheckField(field, ""); !result.Valid() {
		t.Fatalf("empty optional field must skip length/pattern rules, got %+v", result.Issues)
	}
}

func TestCheckFieldStringRules(t *testing.T) {
	field := metadata.FieldDescriptor{
		Name:        "sku",
		DisplayName: "SKU",
		Validation:  &metadata.Validation{MinLength: intPtr(3), MaxLength: intPtr(5), Pattern: `^[A-Z0-9]+$`},
	}

	cases := []struct {
		value string
		valid bool
	}{
		{"AB", false},
		{"ABC123", false},
		{"ab-1", false},
		{"AB12", true},
	}
	for _, tc := range cases {
		if got := validation.CheckField(field, tc.value).Valid(); got != tc.valid {
			t.Errorf("CheckField(%q).Valid() = %v, want %v", tc.value, got, tc.valid)
		}
	}
}

func TestCheckFieldNumericBounds(t *testing.T) {
	field := metadata.FieldDescriptor{
		Name:        "quantity",
		DisplayName: "Quantity",
		DataType:    metadata.TypeInteger,
		Validation:  &metadata.Validation{Min: floatPtr(1), Max: floatPtr(100)},
	}

	if result := validation.CheckField(field, 0); result.Valid() {
		t.Errorf("value below min must fail")
	}
	if result := validation.CheckField(field, float64(101)); result.Valid() {
		t.Errorf("value above max must fail")
	}
	if result := validation.CheckField(field, "50"); !result.Valid() {
		t.Errorf("numeric string within bounds must pass")
	}
}

func TestCheckFiltersRequiredOnly(t *testing.T) {
	filters := []metadata.ReportFilterDescriptor{
		{Name: "start_date", DisplayName: "Start Date", Required: true},
		{Name: "stores", DisplayName: "Stores", FieldType: metadata.FilterMultiSelect, Required: true},
		{Name: "query", DisplayName: "Query"},
	}

	result := validation.CheckFilters(filters, map[string]any{
		"stores": []string{},
	})

	want := map[string][]string{
		"start_date": {"Start Date is required"},
		"stores":     {"Stores is required"},
	}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Errorf("filter issues mismatch (-want +got):\n%s", diff)
	}

	result = validation.CheckFilters(filters, map[string]any{
		"start_date": "2026-01-01",
		"stores":     []string{"a"},
	})
	if !result.Valid() {
		t.Errorf("satisfied required filters must pass, got %+v", result.Issues)
	}
}

func TestCheckFormUsesSurfaceVisibility(t *testing.T) {
	meta := &metadata.EntityMetadata{
		Name: "product",
		Fields: []metadata.FieldDescriptor{
			{Name: "nome", DisplayName: "Nome", IsRequired: true, ShowInCreate: true},
			{Name: "legacy_code", DisplayName: "Legacy", IsRequired: true, ShowInUpdate: true},
		},
	}

	result := validation.CheckForm(meta, metadata.SurfaceCreate, map[string]any{})
	if len(result.Issues) != 1 || result.Issues[0].Field != "nome" {
		t.Fatalf("create surface must only validate create-visible fields, got %+v", result.Issues)
	}
}
