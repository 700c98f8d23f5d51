package api

import (
	"net/http"

	"github.com/okian/raidlog/internal/domain/stats"
)

// StatsHandler serves the stats report.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type sectionsResponse struct {
	Query    string          `json:"query"`
	Sections []stats.Section `json:"sections"`
}

// HandleReport handles GET /stats?q=.
func (h *StatsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.Report(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleSections handles GET /stats/sections?q=, listing the sections the
// query selects in display order.
func (h *StatsHandler) HandleSections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	ids := stats.SearchSections(q)
	out := sectionsResponse{Query: q, Sections: []stats.Section{}}
	for _, s := range stats.Sections() {
		for _, id := range ids {
			if s.ID == id {
				out.Sections = append(out.Sections, s)
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}
