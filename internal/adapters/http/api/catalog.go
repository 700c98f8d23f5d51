package api

import (
	"net/http"

	"github.com/okian/raidlog/internal/domain/catalog"
)

// CatalogHandler serves the static option lists.
type CatalogHandler struct {
	body catalogResponse
}

type catalogResponse struct {
	Maps            []string            `json:"maps"`
	Conditions      map[string][]string `json:"conditions"`
	DefaultCond     string              `json:"default_condition"`
	ValuePresets    []float64           `json:"value_presets"`
	DurationPresets []float64           `json:"duration_presets"`
	KillPresets     []int               `json:"kill_presets"`
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler() *CatalogHandler {
	conds := make(map[string][]string, len(catalog.Maps))
	for _, m := range catalog.Maps {
		conds[m] = catalog.ConditionsForMap(m)
	}
	return &CatalogHandler{body: catalogResponse{
		Maps:            catalog.Maps,
		Conditions:      conds,
		DefaultCond:     catalog.DefaultCondition,
		ValuePresets:    catalog.ValuePresets,
		DurationPresets: catalog.DurationPresets,
		KillPresets:     catalog.KillPresets,
	}}
}

// HandleCatalog handles GET /catalog.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.body)
}
