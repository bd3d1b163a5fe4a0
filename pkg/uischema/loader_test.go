package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-backoffice/pkg/uischema"
)

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"overrides/products.yaml": &fstest.MapFile{Data: []byte(`
entities:
  products:
    displayName: Catalog
    icon: '<svg viewBox="0 0 24 24"><path d="M0 0h24"/><script>alert(1)</script></svg>'
    fields:
      name:
        label: Product name
        placeholder: Acme Widget
      internal_code:
        hidden: true
      price:
        widget: number
reports:
  sales-by-region:
    displayName: Regional Sales
    category: Finance
`)},
		"overrides/ignored.txt": &fstest.MapFile{Data: []byte("not a schema")},
	}

	store, err := uischema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS() error: %v", err)
	}

	entity, ok := store.Entity("products")
	if !ok {
		t.Fatalf("entity override not loaded")
	}
	if entity.DisplayName != "Catalog" {
		t.Fatalf("DisplayName = %q, want Catalog", entity.DisplayName)
	}
	if entity.Fields["name"].Label != "Product name" {
		t.Fatalf("field label = %q", entity.Fields["name"].Label)
	}
	if hidden := entity.Fields["internal_code"].Hidden; hidden == nil || !*hidden {
		t.Fatalf("hidden override not parsed")
	}

	if strings.Contains(entity.Icon, "script") {
		t.Fatalf("icon markup not sanitized: %q", entity.Icon)
	}
	if !strings.Contains(entity.Icon, "<svg") || !strings.Contains(entity.Icon, "<path") {
		t.Fatalf("icon markup lost safe elements: %q", entity.Icon)
	}

	report, ok := store.Report("sales-by-region")
	if !ok {
		t.Fatalf("report override not loaded")
	}
	if report.Category != "Finance" {
		t.Fatalf("report category = %q", report.Category)
	}

	if _, ok := store.Entity("unknown"); ok {
		t.Fatalf("unexpected override for unknown entity")
	}
}

func TestLoadFSDuplicateEntity(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte("entities:\n  products: {displayName: A}\n")},
		"b.yaml": &fstest.MapFile{Data: []byte("entities:\n  products: {displayName: B}\n")},
	}

	if _, err := uischema.LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate entity error")
	}
}

func TestLoadFSNil(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS(nil) error: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("store should be empty")
	}
}
