package backoffice

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-backoffice/internal/server"
	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/session"
	"github.com/goliatone/go-backoffice/pkg/uischema"
)

// EntityMetadata describes one dynamic entity as published by the target API;
// alias exported via the root package for convenience.
type EntityMetadata = metadata.EntityMetadata

// FieldDescriptor describes a single entity field across surfaces.
type FieldDescriptor = metadata.FieldDescriptor

// Record is a single entity row keyed by field name.
type Record = metadata.Record

// RenderOptions carries per-request overrides such as theme, hidden fields,
// and localized messages into a renderer.
type RenderOptions = render.RenderOptions

// Messages holds the localized strings renderers emit.
type Messages = render.Messages

// User identifies the authenticated back-office operator.
type User = client.User

// ServerConfig configures the embedded HTTP server.
type ServerConfig = server.Config

// DefaultServerConfig returns the baseline server configuration used by the
// CLI before flags and environment overrides apply.
func DefaultServerConfig() ServerConfig {
	return server.DefaultConfig()
}

// NewClient builds an API client scoped to one tenant. Callers that serve
// multiple tenants construct one client per request instead.
func NewClient(baseURL, tenant string, options ...client.Option) *client.Client {
	return client.New(baseURL, tenant, options...)
}

// NewSessionStore builds an empty in-memory session store.
func NewSessionStore() *session.Store {
	return session.NewStore()
}

// NewServer wires the HTTP surface around a configuration and logger. It is
// the programmatic equivalent of the serve command.
func NewServer(cfg ServerConfig, logger *slog.Logger, options ...server.Option) (*server.Server, error) {
	return server.New(cfg, logger, options...)
}

// LoadUISchemas reads tenant presentation overrides from fsys and returns the
// store the server consults when decorating metadata.
func LoadUISchemas(fsys fs.FS) (*uischema.Store, error) {
	return uischema.LoadFS(fsys)
}

// Bootstrap restores a persisted token into the store and validates it
// against the API, clearing the session only when the API rejects it.
func Bootstrap(ctx context.Context, store *session.Store, api *client.Client, token string) error {
	store.Restore(token)
	return store.Bootstrap(ctx, api)
}
