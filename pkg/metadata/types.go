package metadata

// DataType is the closed set of field value kinds the API exposes.
type DataType string

const (
	TypeString   DataType = "string"
	TypeInteger  DataType = "integer"
	TypeDecimal  DataType = "decimal"
	TypeBoolean  DataType = "boolean"
	TypeDate     DataType = "date"
	TypeDateTime DataType = "datetime"
	TypeUUID     DataType = "uuid"
	TypeText     DataType = "text"
)

// Surface identifies the view a field may appear on. Visibility and ordering
// are resolved per surface during normalization.
type Surface string

const (
	SurfaceList   Surface = "list"
	SurfaceCreate Surface = "create"
	SurfaceUpdate Surface = "update"
	SurfaceDetail Surface = "detail"
)

// Validation captures the declarative constraints attached to a field. Zero
// values mean "no constraint"; pointer fields distinguish absent from zero.
type Validation struct {
	Required  bool     `json:"required,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// FieldDescriptor is the canonical description of a single entity field.
// Older metadata generations carried a single showInForm/formOrder pair; the
// normalizer folds that into the split create/update visibility so consumers
// never see the legacy shape.
type FieldDescriptor struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	DisplayName     string     `json:"displayName"`
	DataType        DataType   `json:"dataType"`
	IsRequired      bool       `json:"isRequired"`
	IsReadOnly      bool       `json:"isReadOnly"`
	ShowInList      bool       `json:"showInList"`
	ShowInCreate    bool       `json:"showInCreate"`
	ShowInUpdate    bool       `json:"showInUpdate"`
	ShowInDetail    bool       `json:"showInDetail"`
	ListOrder       int        `json:"listOrder"`
	FormOrder       int        `json:"formOrder"`
	MaxLength       int        `json:"maxLength,omitempty"`
	DefaultValue    any        `json:"defaultValue,omitempty"`
	HasOptions      bool       `json:"hasOptions,omitempty"`
	HasRelationship bool       `json:"hasRelationship,omitempty"`
	Validation      *Validation `json:"validation,omitempty"`

	// Presentation hints, populated by UI schema decoration rather than
	// the wire metadata. Widget bypasses dispatch when set.
	Widget      string `json:"widget,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty"`
}

// VisibleOn reports whether the field appears on the given surface.
func (f FieldDescriptor) VisibleOn(surface Surface) bool {
	switch surface {
	case SurfaceList:
		return f.ShowInList
	case SurfaceCreate:
		return f.ShowInCreate
	case SurfaceUpdate:
		return f.ShowInUpdate
	case SurfaceDetail:
		return f.ShowInDetail
	default:
		return false
	}
}

// OrderOn returns the ordering weight for the given surface. Detail views
// reuse the form ordering.
func (f FieldDescriptor) OrderOn(surface Surface) int {
	if surface == SurfaceList {
		return f.ListOrder
	}
	return f.FormOrder
}

// OptionBacked reports whether the field's value is chosen from a lookup
// (either a fixed option list or a relationship target).
func (f FieldDescriptor) OptionBacked() bool {
	return f.HasOptions || f.HasRelationship
}

// PermissionRule grants per-role CRUD capabilities for one entity. At most
// one rule exists per (entity, role).
type PermissionRule struct {
	Role           string `json:"role"`
	CanCreate      bool   `json:"canCreate"`
	CanRead        bool   `json:"canRead"`
	CanUpdate      bool   `json:"canUpdate"`
	CanDelete      bool   `json:"canDelete"`
	CanReadOwnOnly bool   `json:"canReadOwnOnly"`
}

// Relationship marks a field as resolved through another entity. The client
// only uses it to drive option lookups and the paired <field>_display value.
type Relationship struct {
	ID                string `json:"id,omitempty"`
	FieldID           string `json:"fieldId"`
	RelatedEntityName string `json:"relatedEntityName"`
	RelationshipType  string `json:"relationshipType"`
	DisplayField      string `json:"displayField"`
	ForeignKeyColumn  string `json:"foreignKeyColumn"`
}

// EntitySummary is the catalog entry used for navigation. Fetched once per
// session and immutable client-side.
type EntitySummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
	AllowCreate bool   `json:"allowCreate"`
	AllowRead   bool   `json:"allowRead"`
	AllowUpdate bool   `json:"allowUpdate"`
	AllowDelete bool   `json:"allowDelete"`
}

// EntityMetadata is the canonical description of a server-defined entity.
// It is fetched per entity on demand and never cached across navigations;
// the schema may change between requests.
type EntityMetadata struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	DisplayName   string            `json:"displayName"`
	TableName     string            `json:"tableName,omitempty"`
	Description   string            `json:"description,omitempty"`
	Icon          string            `json:"icon,omitempty"`
	Fields        []FieldDescriptor `json:"fields"`
	Relationships []Relationship    `json:"relationships,omitempty"`
	Permissions   []PermissionRule  `json:"permissions,omitempty"`
	AllowCreate   bool              `json:"allowCreate"`
	AllowRead     bool              `json:"allowRead"`
	AllowUpdate   bool              `json:"allowUpdate"`
	AllowDelete   bool              `json:"allowDelete"`
}

// Field looks up a field descriptor by name. Field names are unique within
// an entity.
func (m *EntityMetadata) Field(name string) (FieldDescriptor, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldsFor returns the fields visible on the given surface, ordered by that
// surface's ordering weight. The returned slice is freshly allocated.
func (m *EntityMetadata) FieldsFor(surface Surface) []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.VisibleOn(surface) {
			out = append(out, f)
		}
	}
	sortFields(out, surface)
	return out
}

func sortFields(fields []FieldDescriptor, surface Surface) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j].OrderOn(surface) < fields[j-1].OrderOn(surface); j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
}

// Record is an opaque row returned by the dynamic API: field name to value,
// plus optional <field>_display companion keys for relationship fields.
type Record map[string]any

// DisplaySuffix is appended by the API to relationship fields carrying a
// human-readable companion value.
const DisplaySuffix = "_display"

// DisplayValue returns the companion display value for a relationship field
// when present, falling back to the raw value.
func (r Record) DisplayValue(field FieldDescriptor) any {
	if field.HasRelationship || field.HasOptions {
		if v, ok := r[field.Name+DisplaySuffix]; ok && v != nil {
			return v
		}
	}
	return r[field.Name]
}

// Pagination describes the server's paging envelope.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// ListPage is one page of records plus its paging envelope.
type ListPage struct {
	Records    []Record   `json:"records"`
	Pagination Pagination `json:"pagination"`
}

// Option is a single selectable value for an option-backed field or a
// select/multiselect report filter.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
