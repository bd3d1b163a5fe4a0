package metadata

import (
	"fmt"
	"strings"
)

// Normalize reconciles a raw entity metadata payload into the canonical
// shape. The API has shipped at least two incompatible generations (a single
// showInForm/formOrder pair versus split showInCreate/showInUpdate flags);
// both are accepted here so no other package ever needs to shape-guess.
//
// Normalize is pure and idempotent: feeding it a payload produced by
// marshalling canonical metadata yields the same result. Missing optional
// keys default to safe values; only a missing name is an error.
func Normalize(raw map[string]any) (*EntityMetadata, error) {
	name := stringAt(raw, "name")
	if name == "" {
		return nil, fmt.Errorf("metadata: entity payload missing name")
	}

	meta := &EntityMetadata{
		ID:          stringAt(raw, "id"),
		Name:        name,
		DisplayName: firstString(raw, "displayName", "display_name"),
		TableName:   firstString(raw, "tableName", "table_name"),
		Description: stringAt(raw, "description"),
		Icon:        stringAt(raw, "icon"),
		AllowCreate: boolAt(raw, "allowCreate"),
		AllowRead:   boolAt(raw, "allowRead"),
		AllowUpdate: boolAt(raw, "allowUpdate"),
		AllowDelete: boolAt(raw, "allowDelete"),
	}
	if meta.DisplayName == "" {
		meta.DisplayName = name
	}

	for _, entry := range listAt(raw, "fields") {
		field, err := normalizeField(entry)
		if err != nil {
			return nil, fmt.Errorf("metadata: entity %q: %w", name, err)
		}
		meta.Fields = append(meta.Fields, field)
	}

	for _, entry := range listAt(raw, "relationships") {
		meta.Relationships = append(meta.Relationships, Relationship{
			ID:                stringAt(entry, "id"),
			FieldID:           stringAt(entry, "fieldId"),
			RelatedEntityName: firstString(entry, "relatedEntityName", "relatedEntity"),
			RelationshipType:  firstString(entry, "relationshipType", "type"),
			DisplayField:      stringAt(entry, "displayField"),
			ForeignKeyColumn:  firstString(entry, "foreignKeyColumn", "foreignKey"),
		})
	}

	for _, entry := range listAt(raw, "permissions") {
		role := stringAt(entry, "role")
		if role == "" {
			continue
		}
		meta.Permissions = append(meta.Permissions, PermissionRule{
			Role:           role,
			CanCreate:      boolAt(entry, "canCreate"),
			CanRead:        boolAt(entry, "canRead"),
			CanUpdate:      boolAt(entry, "canUpdate"),
			CanDelete:      boolAt(entry, "canDelete"),
			CanReadOwnOnly: boolAt(entry, "canReadOwnOnly"),
		})
	}

	return meta, nil
}

func normalizeField(raw map[string]any) (FieldDescriptor, error) {
	name := stringAt(raw, "name")
	if name == "" {
		return FieldDescriptor{}, fmt.Errorf("field payload missing name")
	}

	field := FieldDescriptor{
		ID:              stringAt(raw, "id"),
		Name:            name,
		DisplayName:     firstString(raw, "displayName", "display_name"),
		DataType:        normalizeDataType(firstString(raw, "dataType", "type")),
		IsRequired:      boolAt(raw, "isRequired"),
		IsReadOnly:      boolAt(raw, "isReadOnly"),
		ShowInList:      boolAt(raw, "showInList"),
		ShowInDetail:    boolAt(raw, "showInDetail"),
		ListOrder:       intAt(raw, "listOrder"),
		FormOrder:       intAt(raw, "formOrder"),
		MaxLength:       intAt(raw, "maxLength"),
		HasOptions:      boolAt(raw, "hasOptions"),
		HasRelationship: boolAt(raw, "hasRelationship"),
	}
	if field.DisplayName == "" {
		field.DisplayName = name
	}
	if v, ok := raw["defaultValue"]; ok && v != nil {
		field.DefaultValue = v
	}

	// Visibility per operation: the split flags win when present, the legacy
	// showInForm stands in for both create and update when they are absent.
	legacyForm, hasLegacy := boolValue(raw["showInForm"])
	if create, ok := boolValue(raw["showInCreate"]); ok {
		field.ShowInCreate = create
	} else if hasLegacy {
		field.ShowInCreate = legacyForm
	}
	if update, ok := boolValue(raw["showInUpdate"]); ok {
		field.ShowInUpdate = update
	} else if hasLegacy {
		field.ShowInUpdate = legacyForm
	}

	if rules, ok := raw["validation"].(map[string]any); ok {
		field.Validation = normalizeValidation(rules)
	}

	return field, nil
}

func normalizeValidation(raw map[string]any) *Validation {
	v := &Validation{
		Required: boolAt(raw, "required"),
		Pattern:  stringAt(raw, "pattern"),
	}
	if n, ok := intValue(raw["minLength"]); ok {
		v.MinLength = &n
	}
	if n, ok := intValue(raw["maxLength"]); ok {
		v.MaxLength = &n
	}
	if f, ok := floatValue(raw["min"]); ok {
		v.Min = &f
	}
	if f, ok := floatValue(raw["max"]); ok {
		v.Max = &f
	}
	return v
}

func normalizeDataType(raw string) DataType {
	switch DataType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeInteger:
		return TypeInteger
	case TypeDecimal:
		return TypeDecimal
	case TypeBoolean:
		return TypeBoolean
	case TypeDate:
		return TypeDate
	case TypeDateTime:
		return TypeDateTime
	case TypeUUID:
		return TypeUUID
	case TypeText:
		return TypeText
	default:
		return TypeString
	}
}

func listAt(raw map[string]any, key string) []map[string]any {
	entries, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := stringAt(raw, key); value != "" {
			return value
		}
	}
	return ""
}

func stringAt(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return strings.TrimSpace(value)
}

func boolAt(raw map[string]any, key string) bool {
	value, _ := boolValue(raw[key])
	return value
}

func boolValue(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func intAt(raw map[string]any, key string) int {
	value, _ := intValue(raw[key])
	return value
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func floatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
