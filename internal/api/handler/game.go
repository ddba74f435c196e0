package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordcrush/internal/api/request"
	"github.com/mcoot/wordcrush/internal/api/response"
	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/bot"
	"github.com/mcoot/wordcrush/internal/services/game"
	"github.com/mcoot/wordcrush/internal/web/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	botService     *bot.Service
	hubManager     *sse.HubManager
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	gameController *game.Controller,
	botService *bot.Service,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		botService:     botService,
		hubManager:     hubManager,
		logger:         logger.With(slog.String("component", "game-handler")),
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.gameController.NewGame(r.Context(), req.TeamName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameStateFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Begin handles POST /api/v1/games/{id}/selection/begin
func (h *GameHandler) Begin(w http.ResponseWriter, r *http.Request) {
	pos, ok := decodePosition(w, r)
	if !ok {
		return
	}

	g, err := h.gameController.Begin(r.Context(), gameID(r), pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Extend handles POST /api/v1/games/{id}/selection/extend.
// A move the selection rules refuse still answers 200 with the unchanged game.
func (h *GameHandler) Extend(w http.ResponseWriter, r *http.Request) {
	pos, ok := decodePosition(w, r)
	if !ok {
		return
	}

	g, err := h.gameController.Extend(r.Context(), gameID(r), pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Release handles POST /api/v1/games/{id}/selection/release
func (h *GameHandler) Release(w http.ResponseWriter, r *http.Request) {
	outcome, g, err := h.gameController.Release(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ReleaseResult{
		Outcome: response.OutcomeFromModel(outcome),
		Game:    response.GameStateFromModel(g),
	})
}

// Hint handles GET /api/v1/games/{id}/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.botService.Suggest(r.Context(), gameID(r), r.URL.Query().Get("strategy"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintFromCandidate(candidate))
}

// BotPlay handles POST /api/v1/games/{id}/bot/play
func (h *GameHandler) BotPlay(w http.ResponseWriter, r *http.Request) {
	var req request.BotRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, g, err := h.botService.Play(r.Context(), gameID(r), req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ReleaseResult{
		Outcome: response.OutcomeFromModel(outcome),
		Game:    response.GameStateFromModel(g),
	})
}

// End handles DELETE /api/v1/games/{id}
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	summary, err := h.gameController.End(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameSummaryFromModel(*summary))
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if _, err := h.gameController.GetGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Debug("event stream opened",
		slog.String("game_id", string(id)),
		slog.String("remote", r.RemoteAddr))

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, r.RemoteAddr)
}

// decodePosition reads a {row, col} body, writing a 400 if either is missing
func decodePosition(w http.ResponseWriter, r *http.Request) (model.Position, bool) {
	var req request.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return model.Position{}, false
	}
	if req.Row == nil || req.Col == nil {
		WriteError(w, NewInvalidRequestError("row and col are required"))
		return model.Position{}, false
	}
	return model.Position{Row: *req.Row, Col: *req.Col}, true
}

// decodeOptional decodes a JSON body, treating an empty body as zero values
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
