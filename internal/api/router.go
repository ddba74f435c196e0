package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordcrush/internal/api/handler"
	"github.com/mcoot/wordcrush/internal/api/middleware"
	"github.com/mcoot/wordcrush/internal/api/response"
	rootmiddleware "github.com/mcoot/wordcrush/internal/middleware"
	"github.com/mcoot/wordcrush/internal/services/bot"
	"github.com/mcoot/wordcrush/internal/services/game"
	"github.com/mcoot/wordcrush/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	BotService     *bot.Service
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.HubManager, cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(rootmiddleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.End).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/selection/begin", gameHandler.Begin).Methods(http.MethodPost)
	games.HandleFunc("/{id}/selection/extend", gameHandler.Extend).Methods(http.MethodPost)
	games.HandleFunc("/{id}/selection/release", gameHandler.Release).Methods(http.MethodPost)
	games.HandleFunc("/{id}/hint", gameHandler.Hint).Methods(http.MethodGet)
	games.HandleFunc("/{id}/bot/play", gameHandler.BotPlay).Methods(http.MethodPost)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
