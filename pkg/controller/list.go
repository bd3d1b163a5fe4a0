package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/permissions"
	"github.com/goliatone/go-backoffice/pkg/render"
)

const defaultPageSize = 20

// ListController drives one entity's paged listing. Metadata is re-fetched
// on every load; the schema may change between requests. A load that
// resolves after Close, or after a newer load started, is discarded.
type ListController struct {
	api           EntityAPI
	entity        string
	role          string
	invalidations *Invalidations

	mu      sync.Mutex
	gen     uint64
	closed  bool
	version uint64
	meta    *metadata.EntityMetadata
	page    metadata.ListPage
	query   client.ListQuery
	loading bool
}

type ListOption func(*ListController)

// WithListPageSize overrides the default page size.
func WithListPageSize(size int) ListOption {
	return func(c *ListController) {
		if size > 0 {
			c.query.PageSize = size
		}
	}
}

// WithListInvalidations wires the shared mutation tracker so the controller
// can tell when its loaded page predates a save.
func WithListInvalidations(inv *Invalidations) ListOption {
	return func(c *ListController) {
		c.invalidations = inv
	}
}

func NewListController(api EntityAPI, entity, role string, options ...ListOption) *ListController {
	c := &ListController{
		api:    api,
		entity: entity,
		role:   role,
		query:  client.ListQuery{Page: 1, PageSize: defaultPageSize},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Load fetches metadata and the current page. A result arriving after a
// newer Load started, or after Close, is dropped without touching the view.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.loading = true
	query := c.query
	c.mu.Unlock()

	meta, err := c.api.EntityMetadata(ctx, c.entity)
	if err != nil {
		c.finish(gen)
		return fmt.Errorf("controller: list %s: %w", c.entity, err)
	}
	page, err := c.api.Records(ctx, c.entity, query)
	if err != nil {
		c.finish(gen)
		return fmt.Errorf("controller: list %s: %w", c.entity, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return nil
	}
	c.meta = meta
	c.page = page
	c.version = c.invalidations.Version(c.entity)
	c.loading = false
	return nil
}

func (c *ListController) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.loading = false
	}
}

// SetSearch replaces the search text. The page resets to 1: a new search is
// a new result set, and keeping a stale page offset would usually land past
// its end.
func (c *ListController) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.Search != search {
		c.query.Search = search
		c.query.Page = 1
	}
}

// SetPage moves to the given page. Values below 1 clamp to 1.
func (c *ListController) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.query.Page = page
}

// ToggleSort sorts by the given column, flipping direction when the column
// is already the sort key. The page is left unchanged.
func (c *ListController) ToggleSort(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.OrderBy == column {
		c.query.Ascending = !c.query.Ascending
		return
	}
	c.query.OrderBy = column
	c.query.Ascending = true
}

// SetSort restores an absolute sort state, e.g. from URL parameters.
func (c *ListController) SetSort(orderBy string, ascending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.OrderBy = orderBy
	c.query.Ascending = ascending
}

// Query returns the current fetch parameters.
func (c *ListController) Query() client.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// DeleteRecord removes a record, marks the entity's reads stale and
// reloads the page.
func (c *ListController) DeleteRecord(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, c.entity, id); err != nil {
		return fmt.Errorf("controller: delete %s/%s: %w", c.entity, id, err)
	}
	c.invalidations.Invalidate(c.entity)
	return c.Load(ctx)
}

// Stale reports whether a mutation landed after this controller's last
// load. A stale page should be reloaded before presenting.
func (c *ListController) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta != nil && c.invalidations.Version(c.entity) != c.version
}

// Close discards the controller. In-flight loads resolving afterwards are
// dropped.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// View snapshots the current state for rendering. Before the first load
// completes it reports Loading with no metadata.
func (c *ListController) View() render.ListView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := render.ListView{
		Entity:    c.meta,
		Page:      c.page,
		Search:    c.query.Search,
		OrderBy:   c.query.OrderBy,
		Ascending: c.query.Ascending,
		Loading:   c.loading || c.meta == nil,
	}
	if c.meta != nil {
		view.Capabilities = permissions.Resolve(c.meta, c.role)
	}
	return view
}
