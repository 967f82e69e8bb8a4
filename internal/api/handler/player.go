package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/acs-tournaments/internal/api/request"
	"github.com/mcoot/acs-tournaments/internal/api/response"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/player"
	"github.com/mcoot/acs-tournaments/internal/services/ranking"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.playerService.CreatePlayer(r.Context(), req.Name, model.Tier(req.Tier), model.GameID(req.GameID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.PlayerFromModel(p))
}

// List handles GET /api/v1/players, optionally filtered by ?game_id=
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		players []*model.Player
		err     error
	)
	if gameID := r.URL.Query().Get("game_id"); gameID != "" {
		players, err = h.playerService.ListPlayersByGame(r.Context(), model.GameID(gameID))
	} else {
		players, err = h.playerService.ListPlayers(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	p, err := h.playerService.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Update handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.UpdatePlayerRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	update := player.Update{Name: req.Name}
	if req.Tier != nil {
		tier := model.Tier(*req.Tier)
		update.Tier = &tier
	}

	p, err := h.playerService.UpdatePlayer(r.Context(), id, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// AdjustScore handles POST /api/v1/players/{id}/score
func (h *PlayerHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.AdjustScoreRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.playerService.AdjustScore(r.Context(), id, *req.Adjustment)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Ranking handles GET /api/v1/players/ranking?group_by=name|id
func (h *PlayerHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	groupBy, err := ranking.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.playerService.Ranking(r.Context(), groupBy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingFromModel(entries))
}
