package server

import (
	"context"
	"net/http"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/openapi"
)

// entityBackend is the slice of the API the entity pages consume: the
// controller operations plus the catalog listings.
type entityBackend interface {
	controller.EntityAPI
	Entities(ctx context.Context) ([]metadata.EntitySummary, error)
	Reports(ctx context.Context) ([]metadata.ReportSummary, error)
}

// specEntityAPI overlays metadata derived from a local OpenAPI document
// onto the live API. Metadata, catalog entries and enum options come from
// the document; records and mutations still go upstream. It serves
// development against backends that publish a spec but no dynamic
// metadata endpoints.
type specEntityAPI struct {
	*client.Client
	source *openapi.Source
}

func (s specEntityAPI) Entities(ctx context.Context) ([]metadata.EntitySummary, error) {
	if summaries := s.source.Summaries(); len(summaries) > 0 {
		return summaries, nil
	}
	return s.Client.Entities(ctx)
}

func (s specEntityAPI) EntityMetadata(ctx context.Context, entity string) (*metadata.EntityMetadata, error) {
	if meta, ok := s.source.Entity(entity); ok {
		return meta, nil
	}
	return s.Client.EntityMetadata(ctx, entity)
}

func (s specEntityAPI) FieldOptions(ctx context.Context, entity, recordID, field string) ([]metadata.Option, error) {
	if options := s.source.FieldOptions(entity, field); len(options) > 0 {
		return options, nil
	}
	return s.Client.FieldOptions(ctx, entity, recordID, field)
}

// entityAPI returns the backend the entity pages talk to, wrapping the
// tenant client with the OpenAPI overlay when one is configured.
func (s *Server) entityAPI(r *http.Request) entityBackend {
	api := s.api(r)
	if s.specSource != nil {
		return specEntityAPI{Client: api, source: s.specSource}
	}
	return api
}
