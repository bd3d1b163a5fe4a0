// Package openapi derives canonical entity metadata from an OpenAPI 3
// document. It backs the development and test modes where the target API
// publishes a spec but no dynamic metadata endpoint, so the same rendering
// pipeline works against both.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// Source holds entity metadata derived from one OpenAPI document. It is
// immutable after Load and safe for concurrent readers.
type Source struct {
	entities map[string]*metadata.EntityMetadata
	options  map[string]map[string][]metadata.Option
}

// Load parses an OpenAPI 3 payload and converts its object component
// schemas into entity metadata. Non-object schemas are skipped.
func Load(ctx context.Context, raw []byte) (*Source, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	src := &Source{
		entities: make(map[string]*metadata.EntityMetadata),
		options:  make(map[string]map[string][]metadata.Option),
	}

	if spec.Components == nil {
		return src, nil
	}

	for name, ref := range spec.Components.Schemas {
		schema := ref.Value
		if schema == nil || !schema.Type.Is("object") || len(schema.Properties) == 0 {
			continue
		}
		entity, fieldOptions := convertSchema(name, schema)
		src.entities[entity.Name] = entity
		if len(fieldOptions) > 0 {
			src.options[entity.Name] = fieldOptions
		}
	}

	return src, nil
}

// Summaries lists the derived entities sorted by name.
func (s *Source) Summaries() []metadata.EntitySummary {
	out := make([]metadata.EntitySummary, 0, len(s.entities))
	for _, entity := range s.entities {
		out = append(out, metadata.EntitySummary{
			Name:        entity.Name,
			DisplayName: entity.DisplayName,
			Description: entity.Description,
			AllowCreate: entity.AllowCreate,
			AllowRead:   entity.AllowRead,
			AllowUpdate: entity.AllowUpdate,
			AllowDelete: entity.AllowDelete,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Entity returns the derived metadata for one entity.
func (s *Source) Entity(name string) (*metadata.EntityMetadata, bool) {
	entity, ok := s.entities[strings.TrimSpace(name)]
	return entity, ok
}

// FieldOptions returns the enum-backed options for an entity field, nil
// when the field carries no enum.
func (s *Source) FieldOptions(entity, field string) []metadata.Option {
	fields, ok := s.options[strings.TrimSpace(entity)]
	if !ok {
		return nil
	}
	return fields[strings.TrimSpace(field)]
}

func convertSchema(name string, schema *openapi3.Schema) (*metadata.EntityMetadata, map[string][]metadata.Option) {
	required := make(map[string]bool, len(schema.Required))
	for _, field := range schema.Required {
		required[field] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for propName := range schema.Properties {
		names = append(names, propName)
	}
	sort.Strings(names)

	entity := &metadata.EntityMetadata{
		Name:        name,
		DisplayName: titleize(name),
		Description: schema.Description,
		AllowCreate: true,
		AllowRead:   true,
		AllowUpdate: true,
		AllowDelete: true,
	}

	fieldOptions := make(map[string][]metadata.Option)
	for order, propName := range names {
		ref := schema.Properties[propName]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, options := convertProperty(propName, ref.Value, required[propName], order)
		entity.Fields = append(entity.Fields, field)
		if len(options) > 0 {
			fieldOptions[propName] = options
		}
	}

	return entity, fieldOptions
}

func convertProperty(name string, prop *openapi3.Schema, required bool, order int) (metadata.FieldDescriptor, []metadata.Option) {
	dataType := convertType(prop)
	readOnly := prop.ReadOnly || bookkeepingField(name)

	field := metadata.FieldDescriptor{
		Name:         name,
		DisplayName:  titleize(name),
		DataType:     dataType,
		IsRequired:   required,
		IsReadOnly:   readOnly,
		ShowInList:   dataType != metadata.TypeText,
		ShowInCreate: !readOnly,
		ShowInUpdate: !readOnly,
		ShowInDetail: true,
		ListOrder:    order,
		FormOrder:    order,
	}
	if prop.MaxLength != nil {
		field.MaxLength = int(*prop.MaxLength)
	}
	if prop.Default != nil {
		field.DefaultValue = prop.Default
	}

	var options []metadata.Option
	if len(prop.Enum) > 0 {
		field.HasOptions = true
		options = make([]metadata.Option, 0, len(prop.Enum))
		for _, entry := range prop.Enum {
			value := fmt.Sprint(entry)
			options = append(options, metadata.Option{Value: value, Label: titleize(value)})
		}
	}

	return field, options
}

func convertType(prop *openapi3.Schema) metadata.DataType {
	switch {
	case prop.Type.Is("boolean"):
		return metadata.TypeBoolean
	case prop.Type.Is("integer"):
		return metadata.TypeInteger
	case prop.Type.Is("number"):
		return metadata.TypeDecimal
	case prop.Type.Is("string"):
		switch prop.Format {
		case "date":
			return metadata.TypeDate
		case "date-time":
			return metadata.TypeDateTime
		case "uuid":
			return metadata.TypeUUID
		}
		return metadata.TypeString
	default:
		return metadata.TypeString
	}
}

// bookkeepingField marks server-maintained columns that never belong on a
// form.
func bookkeepingField(name string) bool {
	switch name {
	case "id", "createdAt", "updatedAt", "created_at", "updated_at":
		return true
	default:
		return false
	}
}

func titleize(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
