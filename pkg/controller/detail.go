package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/permissions"
	"github.com/goliatone/go-backoffice/pkg/render"
)

// DetailController drives the read-only projection of a single record.
type DetailController struct {
	api           EntityAPI
	entity        string
	recordID      string
	role          string
	invalidations *Invalidations

	mu      sync.Mutex
	gen     uint64
	closed  bool
	version uint64
	meta    *metadata.EntityMetadata
	record  metadata.Record
}

type DetailOption func(*DetailController)

// WithDetailInvalidations wires the shared mutation tracker.
func WithDetailInvalidations(inv *Invalidations) DetailOption {
	return func(c *DetailController) {
		c.invalidations = inv
	}
}

func NewDetailController(api EntityAPI, entity, recordID, role string, options ...DetailOption) *DetailController {
	c := &DetailController{
		api:      api,
		entity:   entity,
		recordID: recordID,
		role:     role,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Load fetches metadata and the record. Results arriving after Close or a
// newer Load are discarded.
func (c *DetailController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	meta, err := c.api.EntityMetadata(ctx, c.entity)
	if err != nil {
		return fmt.Errorf("controller: detail %s: %w", c.entity, err)
	}
	record, err := c.api.Record(ctx, c.entity, c.recordID)
	if err != nil {
		return fmt.Errorf("controller: detail %s/%s: %w", c.entity, c.recordID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return nil
	}
	c.meta = meta
	c.record = record
	c.version = c.invalidations.Version(c.entity)
	return nil
}

// DeleteRecord removes the record and marks the entity's reads stale. The
// caller navigates away; there is nothing left to show here.
func (c *DetailController) DeleteRecord(ctx context.Context) error {
	if err := c.api.Delete(ctx, c.entity, c.recordID); err != nil {
		return fmt.Errorf("controller: delete %s/%s: %w", c.entity, c.recordID, err)
	}
	c.invalidations.Invalidate(c.entity)
	return nil
}

// Stale reports whether a mutation landed after the last load.
func (c *DetailController) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta != nil && c.invalidations.Version(c.entity) != c.version
}

// Close discards the controller.
func (c *DetailController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// View snapshots the detail state for rendering.
func (c *DetailController) View() render.DetailView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := render.DetailView{
		Entity:   c.meta,
		Record:   c.record,
		RecordID: c.recordID,
	}
	if c.meta != nil {
		view.Capabilities = permissions.Resolve(c.meta, c.role)
	}
	return view
}
