package api

import "net/http"

// TeammatesHandler serves the roster.
type TeammatesHandler struct {
	deps Dependencies
}

// NewTeammatesHandler creates a new teammates handler.
func NewTeammatesHandler(deps Dependencies) *TeammatesHandler {
	return &TeammatesHandler{deps: deps}
}

type addTeammateRequest struct {
	Username string `json:"username"`
}

// HandleList handles GET /teammates?q=.
func (h *TeammatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roster, err := h.deps.SearchTeammates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleAdd handles POST /teammates.
func (h *TeammatesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addTeammateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	t, err := h.deps.AddTeammate(r.Context(), req.Username)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleRemove handles DELETE /teammates/{name}.
func (h *TeammatesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveTeammate(r.Context(), r.PathValue("name")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
