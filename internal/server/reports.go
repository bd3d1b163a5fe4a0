package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/metadata"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	report := controller.NewReportController(s.api(r), name)

	if err := report.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := report.LoadFilterOptions(r.Context()); err != nil {
		s.logger.Warn("filter options unavailable", "report", name, "error", err)
	}

	// A bare visit shows the filter panel; any query string means "run".
	if r.URL.RawQuery != "" {
		applyReportQuery(report, report.View().Report, r.URL.Query())
		if err := report.Execute(r.Context()); err != nil {
			if len(report.View().Errors) == 0 {
				s.fail(w, r, err)
				return
			}
		}
	}

	s.renderView(w, r, report.View())
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	report := controller.NewReportController(s.api(r), name)

	if err := report.Load(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}

	applyReportQuery(report, report.View().Report, r.URL.Query())
	blob, filename, err := report.Export(r.Context())
	if err != nil {
		if len(report.View().Errors) > 0 {
			http.Redirect(w, r, "/reports/"+url.PathEscape(name), http.StatusSeeOther)
			return
		}
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(blob)
}

// applyReportQuery reads filter, sort and page state from the query
// string. Multi-select filters collect every non-empty repeated value.
func applyReportQuery(report *controller.ReportController, meta *metadata.ReportMetadata, query url.Values) {
	if meta == nil {
		return
	}

	filters := make(map[string]any)
	for _, filter := range meta.Filters {
		raw, ok := query[filter.Name]
		if !ok {
			continue
		}
		if filter.FieldType == metadata.FilterMultiSelect {
			var selected []string
			for _, value := range raw {
				if value != "" {
					selected = append(selected, value)
				}
			}
			filters[filter.Name] = selected
			continue
		}
		filters[filter.Name] = raw[len(raw)-1]
	}
	report.SetFilters(filters)

	if sortBy := query.Get("orderBy"); sortBy != "" {
		direction := "asc"
		if query.Get("ascending") == "false" {
			direction = "desc"
		}
		report.SetSort(sortBy, direction)
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		report.SetPage(page)
	}
}
