// Package permissions derives the CRUD capability flags for the current
// user from canonical entity metadata.
package permissions

import "github.com/goliatone/go-backoffice/pkg/metadata"

// Capabilities is the resolved set of actions the current user may perform
// on one entity.
type Capabilities struct {
	CanCreate      bool `json:"canCreate"`
	CanRead        bool `json:"canRead"`
	CanUpdate      bool `json:"canUpdate"`
	CanDelete      bool `json:"canDelete"`
	CanReadOwnOnly bool `json:"canReadOwnOnly"`
}

// Resolve looks up the permission rule matching the given role. When no rule
// exists for the role, or the metadata carries no per-role table at all, the
// entity's coarse allow flags apply with CanReadOwnOnly forced to false.
// Early schema generations had no permissions array, so an absent table
// means "use coarse defaults", never "deny all".
//
// A nil metadata or an empty role (no authenticated user) resolves through
// the same fallback path; with nil metadata everything is denied.
func Resolve(meta *metadata.EntityMetadata, role string) Capabilities {
	if meta == nil {
		return Capabilities{}
	}

	if role != "" {
		for _, rule := range meta.Permissions {
			if rule.Role != role {
				continue
			}
			return Capabilities{
				CanCreate:      rule.CanCreate,
				CanRead:        rule.CanRead,
				CanUpdate:      rule.CanUpdate,
				CanDelete:      rule.CanDelete,
				CanReadOwnOnly: rule.CanReadOwnOnly,
			}
		}
	}

	return Capabilities{
		CanCreate: meta.AllowCreate,
		CanRead:   meta.AllowRead,
		CanUpdate: meta.AllowUpdate,
		CanDelete: meta.AllowDelete,
	}
}
