package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/api/request"
	"github.com/mcoot/acs-tournaments/internal/api/response"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/tournament"
)

// TournamentHandler handles tournament lifecycle endpoints
type TournamentHandler struct {
	controller       *tournament.Controller
	defaultTeamCount int
	maxTeamCount     int
}

// NewTournamentHandler creates a new tournament handler. defaultTeamCount
// is used when a generate request gives no usable team count; counts above
// maxTeamCount are rejected.
func NewTournamentHandler(controller *tournament.Controller, defaultTeamCount, maxTeamCount int) *TournamentHandler {
	return &TournamentHandler{
		controller:       controller,
		defaultTeamCount: defaultTeamCount,
		maxTeamCount:     maxTeamCount,
	}
}

func tournamentID(r *http.Request) model.TournamentID {
	return model.TournamentID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/tournaments
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTournamentRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.controller.CreateTournament(r.Context(), req.Name, model.GameID(req.GameID), request.PlayerIDs(req.Players))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.TournamentFromModel(t))
}

// List handles GET /api/v1/tournaments
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.controller.ListTournaments(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentsFromModel(tournaments))
}

// ListFinished handles GET /api/v1/tournaments/finished
func (h *TournamentHandler) ListFinished(w http.ResponseWriter, r *http.Request) {
	finished, err := h.controller.ListFinished(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FinishedFromModel(finished))
}

// Get handles GET /api/v1/tournaments/{id}
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.controller.GetTournament(r.Context(), tournamentID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// Update handles PATCH /api/v1/tournaments/{id}
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTournamentRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	update := tournament.Update{Name: req.Name}
	if req.GameID != nil {
		update.GameID = lo.ToPtr(model.GameID(*req.GameID))
	}
	if req.Players != nil {
		update.PlayerIDs = request.PlayerIDs(*req.Players)
	}

	t, err := h.controller.UpdateTournament(r.Context(), tournamentID(r), update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// Delete handles DELETE /api/v1/tournaments/{id}
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteTournament(r.Context(), tournamentID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// RegisterPlayers handles PUT /api/v1/tournaments/{id}/players
func (h *TournamentHandler) RegisterPlayers(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayersRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.controller.RegisterPlayers(r.Context(), tournamentID(r), request.PlayerIDs(req.Players))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// GenerateTeams handles POST /api/v1/tournaments/{id}/teams/generate
func (h *TournamentHandler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateTeamsRequest
	if err := request.DecodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	teamCount := req.NumberOfTeams.Resolve(h.defaultTeamCount)
	if teamCount < 0 || teamCount > h.maxTeamCount {
		WriteError(w, fmt.Errorf("%w: got %d, maximum is %d", model.ErrInvalidTeamCount, teamCount, h.maxTeamCount))
		return
	}

	t, err := h.controller.GenerateTeams(r.Context(), tournamentID(r), teamCount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// ReplaceTeams handles PUT /api/v1/tournaments/{id}/teams
func (h *TournamentHandler) ReplaceTeams(w http.ResponseWriter, r *http.Request) {
	var req request.ReplaceTeamsRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	teams := lo.Map(req.Teams, func(t request.TeamRequest, _ int) model.Team {
		return model.Team{Number: t.TeamNumber, Players: request.PlayerIDs(t.Players)}
	})

	t, err := h.controller.ReplaceTeams(r.Context(), tournamentID(r), teams)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// RecordScores handles POST /api/v1/tournaments/{id}/scores
func (h *TournamentHandler) RecordScores(w http.ResponseWriter, r *http.Request) {
	var req request.RecordScoresRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	scores := lo.Map(req.Scores, func(s request.TeamScoreRequest, _ int) model.TeamScore {
		return model.TeamScore{TeamNumber: s.TeamNumber, Score: *s.Score}
	})

	result, err := h.controller.RecordScores(r.Context(), tournamentID(r), scores)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RecordScoresFromResult(result))
}

// Finish handles POST /api/v1/tournaments/{id}/finish
func (h *TournamentHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req request.FinishTournamentRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.controller.FinishTournament(r.Context(), tournamentID(r), req.WinningTeam)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}
