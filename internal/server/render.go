package server

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/render"
)

func (s *Server) renderOptions(r *http.Request) render.RenderOptions {
	return render.RenderOptions{
		Theme:    s.theme,
		Messages: s.messages,
		Hidden: render.MergeHiddenFields(nil,
			render.TenantField("_tenant", tenantFrom(r.Context())),
		),
	}
}

func (s *Server) renderView(w http.ResponseWriter, r *http.Request, view render.View) {
	body, err := s.renderer.Render(r.Context(), view, s.renderOptions(r))
	if err != nil {
		s.logger.Error("render failed", "kind", view.Kind(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// fail translates an upstream error into a response. Authorization
// failures redirect to the login page; the session itself is only cleared
// by the bootstrap flow. Everything else surfaces the extracted message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if client.IsAuthError(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	status := http.StatusBadGateway
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		status = apiErr.StatusCode
	}

	s.logger.Error("upstream call failed", "error", err, "tenant", tenantFrom(r.Context()))
	http.Error(w, render.ErrorMessage(client.ErrorPayload(err)), status)
}
