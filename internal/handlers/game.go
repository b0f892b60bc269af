package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/bike-town/pkg/game"
)

type ErrorResponse struct {
	Error     string              `json:"error"`
	Rejection *game.RejectedError `json:"rejection,omitempty"`
}

// GameHandler serves game session operations.
// Routes:
// POST /v1/games                  - Create new game
// GET /v1/games/{id}              - Read game state by ID
// DELETE /v1/games/{id}           - Delete game by ID
// GET /v1/games/{id}/reachable    - List affordable destinations
// POST /v1/games/{id}/move        - Move to a location
// POST /v1/games/{id}/buy         - Buy energy with money
// POST /v1/games/{id}/event       - Open or skip the event here
type GameHandler struct {
	engine      *game.Engine
	logger      *slog.Logger
	startMoney  int
	startEnergy int
}

func NewGameHandler(engine *game.Engine, startMoney, startEnergy int, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		engine:      engine,
		logger:      logger,
		startMoney:  startMoney,
		startEnergy: startEnergy,
	}
}

func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/games")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST to create a game")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	gameID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, gameID)
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, gameID)
	case action == "reachable" && r.Method == http.MethodGet:
		h.handleReachable(w, r, gameID)
	case action == "move" && r.Method == http.MethodPost:
		h.handleMove(w, r, gameID)
	case action == "buy" && r.Method == http.MethodPost:
		h.handleBuy(w, r, gameID)
	case action == "event" && r.Method == http.MethodPost:
		h.handleEvent(w, r, gameID)
	default:
		h.logger.Warn("Unknown game route", "method", r.Method, "path", r.URL.Path)
		h.writeError(w, http.StatusNotFound, "Unknown game route")
	}
}

// CreateGameRequest defines the request body for creating a new game.
// The resource overrides are pointers so an explicit zero is rejected
// instead of silently falling back to the server defaults.
type CreateGameRequest struct {
	PlayerName  string `json:"player_name"`
	StartMoney  *int   `json:"start_money,omitempty"`
	StartEnergy *int   `json:"start_energy,omitempty"`
}

// MoveRequest names the destination, by name (case-insensitive) or id
type MoveRequest struct {
	Location string `json:"location"`
}

// BuyRequest is a 1:1 money-to-energy purchase
type BuyRequest struct {
	Amount int `json:"amount"`
}

// EventRequest opens (accept) or skips the event at the current location
type EventRequest struct {
	Accept bool `json:"accept"`
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" {
		h.writeError(w, http.StatusBadRequest, "player_name field is required")
		return
	}

	startMoney := h.startMoney
	if req.StartMoney != nil {
		if *req.StartMoney <= 0 {
			h.writeError(w, http.StatusBadRequest, "start_money must be positive")
			return
		}
		startMoney = *req.StartMoney
	}
	startEnergy := h.startEnergy
	if req.StartEnergy != nil {
		if *req.StartEnergy <= 0 {
			h.writeError(w, http.StatusBadRequest, "start_energy must be positive")
			return
		}
		startEnergy = *req.StartEnergy
	}

	gs, err := h.engine.CreateGame(r.Context(), req.PlayerName, startMoney, startEnergy)
	if err != nil {
		h.logger.Error("Failed to create game", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create game")
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	gs, err := h.engine.Game(r.Context(), gameID)
	if err != nil {
		h.writeEngineError(w, err, gameID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	if err := h.engine.DeleteGame(r.Context(), gameID); err != nil {
		h.logger.Error("Failed to delete game", "error", err, "id", gameID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	h.logger.Debug("Game deleted", "id", gameID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleReachable(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	reachable, err := h.engine.Reachable(r.Context(), gameID)
	if err != nil {
		h.writeEngineError(w, err, gameID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reachable); err != nil {
		h.logger.Error("Failed to encode reachable response", "error", err)
	}
}

func (h *GameHandler) handleMove(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		h.writeError(w, http.StatusBadRequest, "location field is required")
		return
	}

	result, err := h.engine.MoveTo(r.Context(), gameID, req.Location)
	if err != nil {
		h.writeEngineError(w, err, gameID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode move response", "error", err)
	}
}

func (h *GameHandler) handleBuy(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	result, err := h.engine.PurchaseEnergy(r.Context(), gameID, req.Amount)
	if err != nil {
		h.writeEngineError(w, err, gameID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode buy response", "error", err)
	}
}

func (h *GameHandler) handleEvent(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	result, err := h.engine.ResolveEvent(r.Context(), gameID, req.Accept)
	if err != nil {
		h.writeEngineError(w, err, gameID)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode event response", "error", err)
	}
}

// writeEngineError maps engine errors: rule rejections are 422 with the
// rejection detail, missing games are 404, everything else is 500.
func (h *GameHandler) writeEngineError(w http.ResponseWriter, err error, gameID uuid.UUID) {
	if rejected, ok := game.AsRejected(err); ok {
		w.WriteHeader(http.StatusUnprocessableEntity)
		response := ErrorResponse{Error: rejected.Message, Rejection: rejected}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode rejection response", "error", err)
		}
		return
	}
	if errors.Is(err, game.ErrNotFound) {
		h.logger.Warn("Game not found", "id", gameID.String())
		h.writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	h.logger.Error("Engine action failed", "error", err, "id", gameID.String())
	h.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (h *GameHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	response := ErrorResponse{Error: msg}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
