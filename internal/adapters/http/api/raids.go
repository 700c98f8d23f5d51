package api

import (
	"io"
	"net/http"
	"strconv"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/model"
)

// RaidsHandler serves the raid collection.
type RaidsHandler struct {
	deps Dependencies
}

// NewRaidsHandler creates a new raids handler.
func NewRaidsHandler(deps Dependencies) *RaidsHandler {
	return &RaidsHandler{deps: deps}
}

// HandleCreate handles POST /raids.
func (h *RaidsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.RaidInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, err)
		return
	}
	raid, err := h.deps.LogRaid(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Location", "/raids/"+raid.ID)
	writeJSON(w, http.StatusCreated, raid)
}

// HandleList handles GET /raids?limit=N.
func (h *RaidsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(w, NewKind("limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = n
	}
	raids, err := h.deps.Raids(r.Context(), limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raids)
}

// HandleLast handles GET /raids/last.
func (h *RaidsHandler) HandleLast(w http.ResponseWriter, r *http.Request) {
	raid, err := h.deps.LastRaid(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raid)
}

// HandleGet handles GET /raids/{id}.
func (h *RaidsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	raid, err := h.deps.Raid(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raid)
}

// HandleReplace handles PUT /raids/{id}: the body is a full raid input.
func (h *RaidsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var in model.RaidInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, err)
		return
	}
	raid, err := h.deps.UpdateRaid(r.Context(), r.PathValue("id"), service.ReplaceWith(in))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raid)
}

// HandlePatch handles PATCH /raids/{id}: only the fields present change.
func (h *RaidsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		fail(w, WrapKind("read body", ErrTooLarge, err))
		return
	}
	raid, err := h.deps.UpdateRaid(r.Context(), r.PathValue("id"), service.MergeJSON(body))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raid)
}

// HandleDelete handles DELETE /raids/{id}.
func (h *RaidsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteRaid(r.Context(), r.PathValue("id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
