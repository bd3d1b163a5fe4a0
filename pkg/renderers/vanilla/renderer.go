// Package vanilla renders the back-office views as dependency-free,
// server-generated HTML. Control markup is built in Go; page chrome comes
// from an embedded pongo2 template bundle that callers can override.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-backoffice/pkg/render"
	rendertemplate "github.com/goliatone/go-backoffice/pkg/render/template"
	gotemplate "github.com/goliatone/go-backoffice/pkg/render/template/gotemplate"
	"github.com/goliatone/go-backoffice/pkg/widgets"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	widgets          *widgets.Registry
	filters          *widgets.FilterRegistry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgetRegistry overrides the field widget dispatch table.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithFilterRegistry overrides the report filter dispatch table.
func WithFilterRegistry(registry *widgets.FilterRegistry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.filters = registry
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
	filters   *widgets.FilterRegistry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.filters == nil {
		cfg.filters = widgets.NewFilterRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		widgets:   cfg.widgets,
		filters:   cfg.filters,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render dispatches on the view kind and executes the matching page
// template with a context built from the view state.
func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if view == nil {
		return nil, fmt.Errorf("vanilla renderer: view is nil")
	}

	var (
		template string
		data     map[string]any
		err      error
	)

	switch v := view.(type) {
	case render.FormView:
		template = "templates/form"
		data, err = r.formContext(v, options)
	case *render.FormView:
		template = "templates/form"
		data, err = r.formContext(*v, options)
	case render.ListView:
		template = "templates/list"
		data, err = r.listContext(v, options)
	case *render.ListView:
		template = "templates/list"
		data, err = r.listContext(*v, options)
	case render.DetailView:
		template = "templates/detail"
		data, err = r.detailContext(v, options)
	case *render.DetailView:
		template = "templates/detail"
		data, err = r.detailContext(*v, options)
	case render.ReportView:
		template = "templates/report"
		data, err = r.reportContext(v, options)
	case *render.ReportView:
		template = "templates/report"
		data, err = r.reportContext(*v, options)
	case render.CatalogView:
		template = "templates/catalog"
		data, err = r.catalogContext(v, options)
	case *render.CatalogView:
		template = "templates/catalog"
		data, err = r.catalogContext(*v, options)
	default:
		return nil, fmt.Errorf("vanilla renderer: unsupported view kind %q", view.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: build %s context: %w", view.Kind(), err)
	}

	data["chrome"] = chromeContext(options)

	result, err := r.templates.RenderTemplate(template, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
