package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/acs-tournaments/internal/api/request"
	"github.com/mcoot/acs-tournaments/internal/api/response"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/game"
)

// GameHandler handles game catalogue endpoints
type GameHandler struct {
	gameService *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *game.Service) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameService.CreateGame(r.Context(), req.Name, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
