package metadata_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

func TestNormalizeLegacyFormVisibility(t *testing.T) {
	raw := map[string]any{
		"name":        "customer",
		"displayName": "Customers",
		"allowRead":   true,
		"fields": []any{
			map[string]any{
				"name":       "email",
				"dataType":   "string",
				"showInForm": true,
				"formOrder":  float64(2),
			},
			map[string]any{
				"name":       "internal_code",
				"dataType":   "string",
				"showInForm": false,
				"showInList": true,
			},
		},
	}

	meta, err := metadata.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	email, ok := meta.Field("email")
	if !ok {
		t.Fatalf("email field missing from canonical metadata")
	}
	if !email.ShowInCreate || !email.ShowInUpdate {
		t.Errorf("legacy showInForm=true must imply create and update visibility, got create=%v update=%v",
			email.ShowInCreate, email.ShowInUpdate)
	}

	code, _ := meta.Field("internal_code")
	if code.ShowInCreate || code.ShowInUpdate {
		t.Errorf("legacy showInForm=false must hide the field on both form surfaces")
	}
}

func TestNormalizeSplitVisibilityWinsOverLegacy(t *testing.T) {
	raw := map[string]any{
		"name": "order",
		"fields": []any{
			map[string]any{
				"name":         "status",
				"dataType":     "string",
				"showInForm":   true,
				"showInCreate": false,
				"showInUpdate": true,
			},
		},
	}

	meta, err := metadata.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	status, _ := meta.Field("status")
	if status.ShowInCreate {
		t.Errorf("showInCreate=false must win over showInForm=true")
	}
	if !status.ShowInUpdate {
		t.Errorf("showInUpdate=true must be honoured exactly")
	}
}

func TestNormalizeMissingOptionalFieldsDefaultSafely(t *testing.T) {
	meta, err := metadata.Normalize(map[string]any{"name": "bare"})
	if err != nil {
		t.Fatalf("Normalize returned error for minimal payload: %v", err)
	}

	want := &metadata.EntityMetadata{Name: "bare", DisplayName: "bare"}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("canonical metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMissingNameFails(t *testing.T) {
	if _, err := metadata.Normalize(map[string]any{"displayName": "No Identity"}); err == nil {
		t.Fatalf("expected error for payload without name")
	}

	_, err := metadata.Normalize(map[string]any{
		"name":   "entity",
		"fields": []any{map[string]any{"dataType": "string"}},
	})
	if err == nil {
		t.Fatalf("expected error for field without name")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := map[string]any{
		"name":        "product",
		"displayName": "Products",
		"allowCreate": true,
		"allowRead":   true,
		"fields": []any{
			map[string]any{
				"name":         "price",
				"displayName":  "Price",
				"dataType":     "decimal",
				"isRequired":   true,
				"showInList":   true,
				"showInCreate": true,
				"showInUpdate": true,
				"showInDetail": true,
				"validation":   map[string]any{"min": float64(0)},
			},
		},
		"permissions": []any{
			map[string]any{"role": "manager", "canRead": true, "canUpdate": true},
		},
	}

	first, err := metadata.Normalize(raw)
	if err != nil {
		t.Fatalf("first Normalize returned error: %v", err)
	}

	// Round-trip through JSON to simulate receiving canonical metadata from
	// a well-behaved server.
	payload, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal canonical metadata: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal(payload, &roundTrip); err != nil {
		t.Fatalf("unmarshal canonical metadata: %v", err)
	}

	second, err := metadata.Normalize(roundTrip)
	if err != nil {
		t.Fatalf("second Normalize returned error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Normalize is not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalizeDataTypeFallsBackToString(t *testing.T) {
	meta, err := metadata.Normalize(map[string]any{
		"name": "entity",
		"fields": []any{
			map[string]any{"name": "mystery", "dataType": "geometry"},
			map[string]any{"name": "untyped"},
		},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	for _, field := range meta.Fields {
		if field.DataType != metadata.TypeString {
			t.Errorf("field %q: unknown dataType must normalize to string, got %q", field.Name, field.DataType)
		}
	}
}

func TestFieldsForOrdersBySurface(t *testing.T) {
	meta := &metadata.EntityMetadata{
		Name: "sale",
		Fields: []metadata.FieldDescriptor{
			{Name: "total", ShowInList: true, ListOrder: 2, FormOrder: 1},
			{Name: "customer", ShowInList: true, ListOrder: 1, FormOrder: 2},
			{Name: "notes", ShowInDetail: true, FormOrder: 3},
		},
	}

	list := meta.FieldsFor(metadata.SurfaceList)
	if len(list) != 2 || list[0].Name != "customer" || list[1].Name != "total" {
		t.Errorf("list surface must honour listOrder, got %+v", fieldNames(list))
	}

	detail := meta.FieldsFor(metadata.SurfaceDetail)
	if len(detail) != 1 || detail[0].Name != "notes" {
		t.Errorf("detail surface must filter by showInDetail, got %+v", fieldNames(detail))
	}
}

func TestRecordDisplayValuePrefersCompanion(t *testing.T) {
	record := metadata.Record{
		"store_id":         "8d5c",
		"store_id_display": "Loja Centro",
		"quantity":         float64(3),
	}

	rel := metadata.FieldDescriptor{Name: "store_id", HasRelationship: true}
	if got := record.DisplayValue(rel); got != "Loja Centro" {
		t.Errorf("relationship field must prefer _display companion, got %v", got)
	}

	plain := metadata.FieldDescriptor{Name: "quantity"}
	if got := record.DisplayValue(plain); got != float64(3) {
		t.Errorf("plain field must return the raw value, got %v", got)
	}
}

func fieldNames(fields []metadata.FieldDescriptor) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}
