// Package client is the boundary to the back-office REST API. All requests
// carry the tenant header and, when a token provider is configured, a
// bearer token; responses are decoded into the canonical metadata types.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-backoffice/pkg/metadata"
)

// TenantHeader carries the tenant identifier on every outgoing request.
const TenantHeader = "X-Tenant-Subdomain"

// defaultTimeout is the fixed overall deadline applied uniformly to all
// calls. No per-endpoint tuning.
const defaultTimeout = 30 * time.Second

// placeholderRecordID is sent in place of a record id when fetching field
// options for a record that does not exist yet.
var placeholderRecordID = uuid.Nil.String()

// TokenProvider supplies the current bearer token, empty when the session
// is anonymous.
type TokenProvider func() string

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the fixed request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithTokenProvider wires the session token source.
func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) {
		c.token = provider
	}
}

// Client talks to the back-office API for one tenant.
type Client struct {
	baseURL    string
	tenant     string
	httpClient *http.Client
	token      TokenProvider
}

// New constructs a Client for the given API base URL and tenant subdomain.
func New(baseURL, tenant string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tenant:     tenant,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Tenant returns the tenant subdomain this client is bound to.
func (c *Client) Tenant() string {
	return c.tenant
}

func (c *Client) request(method, endpoint string) *apiRequest {
	r := newAPIRequest(c.httpClient, method, c.baseURL, endpoint)
	r.Header(TenantHeader, c.tenant)
	if c.token != nil {
		r.Auth(c.token())
	}
	return r
}

func (c *Client) get(endpoint string) *apiRequest {
	return c.request(http.MethodGet, endpoint)
}

func (c *Client) post(endpoint string) *apiRequest {
	return c.request(http.MethodPost, endpoint)
}

func (c *Client) put(endpoint string) *apiRequest {
	return c.request(http.MethodPut, endpoint)
}

func (c *Client) delete(endpoint string) *apiRequest {
	return c.request(http.MethodDelete, endpoint)
}

// Entities fetches the entity catalog.
func (c *Client) Entities(ctx context.Context) ([]metadata.EntitySummary, error) {
	var response wrappedData[[]metadata.EntitySummary]
	if err := c.get("/api/dynamic").Do(ctx, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// EntityMetadata fetches and normalizes the metadata for one entity. The
// raw payload may use either schema generation; normalization reconciles
// them.
func (c *Client) EntityMetadata(ctx context.Context, entity string) (*metadata.EntityMetadata, error) {
	var raw map[string]any
	if err := c.get("/api/dynamic/" + entity + "/_metadata").Do(ctx, &raw); err != nil {
		return nil, err
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		raw = inner
	}
	meta, err := metadata.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("client: entity %q metadata: %w", entity, err)
	}
	return meta, nil
}

// ListQuery are the paging, sorting and search parameters for a records
// listing.
type ListQuery struct {
	Page      int
	PageSize  int
	Search    string
	OrderBy   string
	Ascending bool
}

// Records fetches one page of an entity's records. Each row arrives wrapped
// in its own data envelope; rows are unwrapped before return.
func (c *Client) Records(ctx context.Context, entity string, query ListQuery) (metadata.ListPage, error) {
	var response struct {
		Data []struct {
			Data metadata.Record `json:"data"`
		} `json:"data"`
		Pagination metadata.Pagination `json:"pagination"`
	}

	req := c.get("/api/dynamic/" + entity)
	if query.Page > 0 {
		req.Param("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		req.Param("pageSize", strconv.Itoa(query.PageSize))
	}
	req.Param("search", query.Search)
	if query.OrderBy != "" {
		req.Param("orderBy", query.OrderBy)
		req.Param("ascending", strconv.FormatBool(query.Ascending))
	}

	if err := req.Do(ctx, &response); err != nil {
		return metadata.ListPage{}, err
	}

	page := metadata.ListPage{Pagination: response.Pagination}
	page.Records = make([]metadata.Record, 0, len(response.Data))
	for _, row := range response.Data {
		page.Records = append(page.Records, row.Data)
	}
	return page, nil
}

// Record fetches a single record by id, unwrapping the data envelope when
// the server applies one.
func (c *Client) Record(ctx context.Context, entity, id string) (metadata.Record, error) {
	var raw map[string]any
	if err := c.get("/api/dynamic/" + entity + "/" + id).Do(ctx, &raw); err != nil {
		return nil, err
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return metadata.Record(inner), nil
	}
	return metadata.Record(raw), nil
}

// FieldOptions fetches the option list for an option-backed field. An empty
// recordID means "new record"; a placeholder id keeps the URL shape stable.
func (c *Client) FieldOptions(ctx context.Context, entity, recordID, field string) ([]metadata.Option, error) {
	if recordID == "" {
		recordID = placeholderRecordID
	}
	var response wrappedData[[]metadata.Option]
	endpoint := "/api/dynamic/" + entity + "/" + recordID + "/options/" + field
	if err := c.get(endpoint).Do(ctx, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Create posts a sanitized payload as a new record.
func (c *Client) Create(ctx context.Context, entity string, payload map[string]any) (metadata.Record, error) {
	var raw map[string]any
	if err := c.post("/api/dynamic/" + entity).JSON(payload).Do(ctx, &raw); err != nil {
		return nil, err
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return metadata.Record(inner), nil
	}
	return metadata.Record(raw), nil
}

// Update puts a sanitized payload over an existing record.
func (c *Client) Update(ctx context.Context, entity, id string, payload map[string]any) (metadata.Record, error) {
	var raw map[string]any
	if err := c.put("/api/dynamic/" + entity + "/" + id).JSON(payload).Do(ctx, &raw); err != nil {
		return nil, err
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return metadata.Record(inner), nil
	}
	return metadata.Record(raw), nil
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, entity, id string) error {
	return c.delete("/api/dynamic/" + entity + "/" + id).Do(ctx, nil)
}
