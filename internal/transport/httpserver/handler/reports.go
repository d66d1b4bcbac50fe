package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gym-app-go/internal/domain/report"
)

func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": report.Names()})
}

// Report redirects to the external report server. Parameters come from the
// query string on GET and from the form body on POST.
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	values := make(map[string]string, len(r.Form))
	for key := range r.Form {
		values[key] = strings.TrimSpace(r.Form.Get(key))
	}

	target, err := h.Reports.Build(chi.URLParam(r, "name"), values)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	redirect(w, r, target)
}
