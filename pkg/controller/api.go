// Package controller orchestrates the metadata, record and report fetches
// behind each view: list paging and sorting, form seeding and submission,
// detail projection and report execution. Controllers consume the canonical
// metadata shape only; all payload reconciliation happens in the client and
// normalizer layers below them.
package controller

import (
	"context"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// EntityAPI is the slice of the REST client the entity controllers need.
// *client.Client satisfies it; tests substitute fakes.
type EntityAPI interface {
	EntityMetadata(ctx context.Context, entity string) (*metadata.EntityMetadata, error)
	Records(ctx context.Context, entity string, query client.ListQuery) (metadata.ListPage, error)
	Record(ctx context.Context, entity, id string) (metadata.Record, error)
	FieldOptions(ctx context.Context, entity, recordID, field string) ([]metadata.Option, error)
	Create(ctx context.Context, entity string, payload map[string]any) (metadata.Record, error)
	Update(ctx context.Context, entity, id string, payload map[string]any) (metadata.Record, error)
	Delete(ctx context.Context, entity, id string) error
}

// ReportAPI is the slice of the REST client the report controller needs.
type ReportAPI interface {
	ReportMetadata(ctx context.Context, report string) (*metadata.ReportMetadata, error)
	ExecuteReport(ctx context.Context, report string, query client.ReportQuery) (metadata.ListPage, error)
	ExportReport(ctx context.Context, report string, query client.ReportQuery) ([]byte, error)
	ReportFilterOptions(ctx context.Context, report, filter string) ([]metadata.Option, error)
}

// Invalidations tracks a version counter per entity. A successful mutation
// bumps the entity's version; read controllers remember the version they
// loaded under and report themselves stale once it moves, so navigation
// after a save refetches instead of showing the pre-mutation page.
type Invalidations struct {
	mu       sync.Mutex
	versions map[string]uint64
}

func NewInvalidations() *Invalidations {
	return &Invalidations{versions: make(map[string]uint64)}
}

// Invalidate bumps the entity's version.
func (i *Invalidations) Invalidate(entity string) {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.versions[entity]++
}

// Version returns the entity's current version.
func (i *Invalidations) Version(entity string) uint64 {
	if i == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.versions[entity]
}
