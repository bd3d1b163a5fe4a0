package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
)

func (s *Server) decorate(meta *metadata.EntityMetadata) *metadata.EntityMetadata {
	if s.schemas == nil || meta == nil {
		return meta
	}
	return s.schemas.Decorate(meta)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	api := s.entityAPI(r)

	entities, err := api.Entities(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	reports, err := api.Reports(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.schemas != nil {
		entities = s.schemas.DecorateSummaries(entities)
		reports = s.schemas.DecorateReports(reports)
	}
	s.renderView(w, r, render.CatalogView{Entities: entities, Reports: reports})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	list := controller.NewListController(s.entityAPI(r), entity, s.role(),
		controller.WithListInvalidations(s.invalidations))

	query := r.URL.Query()
	list.SetSearch(query.Get("search"))
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		list.SetPage(page)
	}
	if orderBy := query.Get("orderBy"); orderBy != "" {
		list.SetSort(orderBy, query.Get("ascending") != "false")
	}

	if err := list.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}

	view := list.View()
	view.Entity = s.decorate(view.Entity)
	s.renderView(w, r, view)
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.serveForm(w, r, "")
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	s.serveForm(w, r, chi.URLParam(r, "id"))
}

func (s *Server) serveForm(w http.ResponseWriter, r *http.Request, recordID string) {
	entity := chi.URLParam(r, "entity")
	form := controller.NewFormController(s.entityAPI(r), entity, recordID,
		controller.WithFormInvalidations(s.invalidations))

	if err := form.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := form.LoadOptions(r.Context()); err != nil {
		s.logger.Warn("field options unavailable", "entity", entity, "error", err)
	}

	view := form.View()
	view.Entity = s.decorate(view.Entity)
	s.renderView(w, r, view)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.submitForm(w, r, "")
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.submitForm(w, r, chi.URLParam(r, "id"))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, recordID string) {
	entity := chi.URLParam(r, "entity")
	form := controller.NewFormController(s.entityAPI(r), entity, recordID,
		controller.WithFormInvalidations(s.invalidations))

	if err := form.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	view := form.View()
	values, fieldErrors := parseFormValues(view.Entity, view.Surface, r.PostForm)
	form.SetValues(values)

	if len(fieldErrors) > 0 {
		view = form.View()
		view.Entity = s.decorate(view.Entity)
		view.Errors = fieldErrors
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderFormBody(w, r, view)
		return
	}

	if _, err := form.Submit(r.Context()); err != nil {
		if errors.Is(err, controller.ErrSubmitInFlight) {
			http.Error(w, "submission already in progress", http.StatusConflict)
			return
		}
		view = form.View()
		if !errors.Is(err, controller.ErrValidation) && view.FormError == "" {
			s.fail(w, r, err)
			return
		}
		view.Entity = s.decorate(view.Entity)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderFormBody(w, r, view)
		return
	}

	http.Redirect(w, r, "/crud/"+entity, http.StatusSeeOther)
}

// renderFormBody renders a form view without writing a status header; the
// caller already chose one.
func (s *Server) renderFormBody(w http.ResponseWriter, r *http.Request, view render.FormView) {
	body, err := s.renderer.Render(r.Context(), view, s.renderOptions(r))
	if err != nil {
		s.logger.Error("render failed", "kind", view.Kind(), "error", err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Write(body)
}

// parseFormValues converts posted strings into typed values using each
// field's data type. Toggle controls post a hidden "false" followed by the
// checkbox value, so the last posted value wins. Read-only fields are
// never taken from the form.
func parseFormValues(meta *metadata.EntityMetadata, surface metadata.Surface, posted map[string][]string) (map[string]any, map[string][]string) {
	values := make(map[string]any)
	var fieldErrors map[string][]string

	for _, field := range meta.FieldsFor(surface) {
		if field.IsReadOnly {
			continue
		}
		raw, ok := posted[field.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		text := raw[len(raw)-1]

		parsed, err := render.ParseInput(text, field.DataType)
		if err != nil {
			if fieldErrors == nil {
				fieldErrors = make(map[string][]string)
			}
			fieldErrors[field.Name] = []string{err.Error()}
			values[field.Name] = text
			continue
		}
		if parsed == nil {
			// Empty text clears string fields; on a uuid field the
			// sanitizer turns it into an explicit null. Empty numbers and
			// dates stay unset.
			switch field.DataType {
			case metadata.TypeUUID, metadata.TypeString, metadata.TypeText:
				values[field.Name] = ""
			}
			continue
		}
		values[field.Name] = parsed
	}
	return values, fieldErrors
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	id := chi.URLParam(r, "id")

	detail := controller.NewDetailController(s.entityAPI(r), entity, id, s.role(),
		controller.WithDetailInvalidations(s.invalidations))
	if err := detail.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}

	view := detail.View()
	view.Entity = s.decorate(view.Entity)
	s.renderView(w, r, view)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	id := chi.URLParam(r, "id")

	detail := controller.NewDetailController(s.entityAPI(r), entity, id, s.role(),
		controller.WithDetailInvalidations(s.invalidations))
	if err := detail.DeleteRecord(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/crud/"+entity, http.StatusSeeOther)
}
