// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/internal/domain/stats"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	StatsProvider

	LogRaid(ctx context.Context, in model.RaidInput) (model.Raid, error)
	UpdateRaid(ctx context.Context, id string, patch service.RaidPatch) (model.Raid, error)
	DeleteRaid(ctx context.Context, id string) error
	Raid(ctx context.Context, id string) (model.Raid, error)
	Raids(ctx context.Context, limit int) ([]model.Raid, error)
	LastRaid(ctx context.Context) (model.Raid, error)

	SearchTeammates(ctx context.Context, query string) ([]model.Teammate, error)
	AddTeammate(ctx context.Context, name string) (model.Teammate, error)
	RemoveTeammate(ctx context.Context, name string) error

	Report(ctx context.Context, query string) (stats.Report, error)

	Export(ctx context.Context) (service.Export, error)
	Import(ctx context.Context, data service.Export, replace bool) (service.ImportResult, error)
	Clear(ctx context.Context) error
}

// StatsProvider defines the interface for getting service status.
type StatsProvider interface {
	GetStats() map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statusHandler    *StatusHandler
	raidsHandler     *RaidsHandler
	teammatesHandler *TeammatesHandler
	statsHandler     *StatsHandler
	dataHandler      *DataHandler
	catalogHandler   *CatalogHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statusHandler:    NewStatusHandler(deps),
		raidsHandler:     NewRaidsHandler(deps),
		teammatesHandler: NewTeammatesHandler(deps),
		statsHandler:     NewStatsHandler(deps),
		dataHandler:      NewDataHandler(deps),
		catalogHandler:   NewCatalogHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	route("GET /status", "status", s.statusHandler.HandleStatus)

	route("POST /raids", "raids", s.raidsHandler.HandleCreate)
	route("GET /raids", "raids", s.raidsHandler.HandleList)
	route("GET /raids/last", "raids_last", s.raidsHandler.HandleLast)
	route("GET /raids/{id}", "raid", s.raidsHandler.HandleGet)
	route("PUT /raids/{id}", "raid", s.raidsHandler.HandleReplace)
	route("PATCH /raids/{id}", "raid", s.raidsHandler.HandlePatch)
	route("DELETE /raids/{id}", "raid", s.raidsHandler.HandleDelete)

	route("GET /teammates", "teammates", s.teammatesHandler.HandleList)
	route("POST /teammates", "teammates", s.teammatesHandler.HandleAdd)
	route("DELETE /teammates/{name}", "teammate", s.teammatesHandler.HandleRemove)

	route("GET /stats", "stats", s.statsHandler.HandleReport)
	route("GET /stats/sections", "stats_sections", s.statsHandler.HandleSections)
	route("GET /catalog", "catalog", s.catalogHandler.HandleCatalog)

	route("GET /export", "export", s.dataHandler.HandleExport)
	route("POST /import", "import", s.dataHandler.HandleImport)
	route("DELETE /data", "data", s.dataHandler.HandleClear)
}

// maxBodyBytes bounds request bodies; exports of a few thousand raids fit.
const maxBodyBytes = 8 << 20

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON document from the request body into dst,
// rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind("decode body", ErrTooLarge, err)
		}
		return WrapKind("decode body", ErrBadRequest, err)
	}
	return nil
}
