package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwebster45206/bike-town/pkg/storage"
	"github.com/jwebster45206/bike-town/pkg/world"
)

// WorldHandler serves read-only world catalog projections.
// Routes:
// GET /v1/world/locations        - Ordered location list
// GET /v1/world/route?from=&to=  - Route info for a pair (defaulted)
type WorldHandler struct {
	catalog *world.Catalog
	storage storage.Storage
	logger  *slog.Logger
}

func NewWorldHandler(catalog *world.Catalog, storage storage.Storage, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{
		catalog: catalog,
		storage: storage,
		logger:  logger,
	}
}

func (h *WorldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/world"), "/")
	switch path {
	case "locations":
		h.handleLocations(w, r)
	case "route":
		h.handleRoute(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown world route")
	}
}

func (h *WorldHandler) handleLocations(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.catalog.Locations()); err != nil {
		h.logger.Error("Failed to encode locations response", "error", err)
	}
}

func (h *WorldHandler) handleRoute(w http.ResponseWriter, r *http.Request) {
	fromID, err1 := strconv.Atoi(r.URL.Query().Get("from"))
	toID, err2 := strconv.Atoi(r.URL.Query().Get("to"))
	if err1 != nil || err2 != nil {
		h.writeError(w, http.StatusBadRequest, "from and to query params must be location ids")
		return
	}

	if _, ok := h.catalog.Location(fromID); !ok {
		h.writeError(w, http.StatusNotFound, "Unknown from location")
		return
	}
	if _, ok := h.catalog.Location(toID); !ok {
		h.writeError(w, http.StatusNotFound, "Unknown to location")
		return
	}

	route, err := h.storage.GetRoute(r.Context(), fromID, toID)
	if err != nil {
		h.logger.Error("Failed to read route", "error", err, "from", fromID, "to", toID)
		h.writeError(w, http.StatusInternalServerError, "Failed to read route")
		return
	}
	if route == nil {
		// No explicit entry; the default applies.
		def := world.DefaultRoute()
		def.FromID = fromID
		def.ToID = toID
		route = &def
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(route); err != nil {
		h.logger.Error("Failed to encode route response", "error", err)
	}
}

func (h *WorldHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	response := ErrorResponse{Error: msg}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
