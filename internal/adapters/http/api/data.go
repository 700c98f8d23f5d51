package api

import (
	"net/http"
	"strconv"

	service "github.com/okian/raidlog/internal/app"
)

// DataHandler serves export, import and wipe.
type DataHandler struct {
	deps Dependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleExport handles GET /export.
func (h *DataHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.Export(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="raidlog-export.json"`)
	writeJSON(w, http.StatusOK, data)
}

// HandleImport handles POST /import?replace=true|false.
func (h *DataHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(w, WrapKind("replace must be a boolean", ErrBadRequest, err))
			return
		}
		replace = b
	}
	var data service.Export
	if err := decodeJSON(w, r, &data); err != nil {
		fail(w, err)
		return
	}
	res, err := h.deps.Import(r.Context(), data, replace)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleClear handles DELETE /data.
func (h *DataHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Clear(r.Context()); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
