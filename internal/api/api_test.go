package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/acs-tournaments/internal/api"
	"github.com/mcoot/acs-tournaments/internal/api/apierr"
	"github.com/mcoot/acs-tournaments/internal/api/response"
	"github.com/mcoot/acs-tournaments/internal/factory"
	"github.com/mcoot/acs-tournaments/internal/testutil"
)

// testServer wraps the router over a test app with mocked clock and random
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:               testutil.NopLogger(),
		GameService:          app.GameService,
		PlayerService:        app.PlayerService,
		TournamentController: app.TournamentController,
		Metrics:              app.Metrics,
		CORSOrigins:          []string{"http://localhost:3000"},
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		encoded, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(encoded)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func (ts *testServer) createPlayer(t *testing.T, name string, tier int) response.Player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]any{"name": name, "tier": tier})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Player](t, rr)
}

func (ts *testServer) createTournament(t *testing.T, players ...any) response.Tournament {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/tournaments", map[string]any{"name": "Cup", "players": players})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Tournament](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "acs_team_generations_total")
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRouteNotFound, errorCode(t, rr))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/players", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

// Games

func TestCreateAndListGames(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"name": "Chess", "description": "board"})
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[response.Game](t, rr)
	assert.Equal(t, "Chess", created.Name)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	assert.Len(t, decode[[]response.Game](t, rr), 1)

	rr = ts.request(http.MethodGet, "/api/v1/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestCreateGameRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"description": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[apierr.ErrorResponse](t, rr).Error.Message, "name is required")
}

// Players

func TestCreatePlayerValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]any{"name": "ann", "tier": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[apierr.ErrorResponse](t, rr).Error.Message, "tier")

	rr = ts.request(http.MethodPost, "/api/v1/players", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players", map[string]any{"name": "ann", "tier": 1, "game_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePlayer(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "ann", 1)

	rr := ts.request(http.MethodPatch, "/api/v1/players/"+p.ID, map[string]any{"tier": 3})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decode[response.Player](t, rr).Tier)

	rr = ts.request(http.MethodPatch, "/api/v1/players/"+p.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/players/missing", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdjustPlayerScore(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "ann", 1)

	rr := ts.request(http.MethodPost, "/api/v1/players/"+p.ID+"/score", map[string]int{"adjustment": -4})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, -4, decode[response.Player](t, rr).Score)

	rr = ts.request(http.MethodPost, "/api/v1/players/"+p.ID+"/score", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/missing/score", map[string]int{"adjustment": 1})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))
}

func TestListPlayersByGame(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"name": "Chess"})
	game := decode[response.Game](t, rr)
	ts.request(http.MethodPost, "/api/v1/players", map[string]any{"name": "ann", "tier": 1, "game_id": game.ID})
	ts.createPlayer(t, "ben", 1)

	rr = ts.request(http.MethodGet, "/api/v1/players?game_id="+game.ID, nil)
	players := decode[[]response.Player](t, rr)
	require.Len(t, players, 1)
	assert.Equal(t, "ann", players[0].Name)

	rr = ts.request(http.MethodGet, "/api/v1/players", nil)
	assert.Len(t, decode[[]response.Player](t, rr), 2)
}

func TestRanking(t *testing.T) {
	ts := newTestServer(t)
	a := ts.createPlayer(t, "ann", 1)
	b := ts.createPlayer(t, "ben", 1)
	ts.request(http.MethodPost, "/api/v1/players/"+a.ID+"/score", map[string]int{"adjustment": 2})
	ts.request(http.MethodPost, "/api/v1/players/"+b.ID+"/score", map[string]int{"adjustment": 9})

	rr := ts.request(http.MethodGet, "/api/v1/players/ranking", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decode[[]response.RankingEntry](t, rr)
	require.Len(t, entries, 2)
	assert.Equal(t, "ben", entries[0].Name)
	assert.Equal(t, 9, entries[0].TotalScore)

	rr = ts.request(http.MethodGet, "/api/v1/players/ranking?group_by=id", nil)
	assert.Equal(t, b.ID, decode[[]response.RankingEntry](t, rr)[0].Key)

	rr = ts.request(http.MethodGet, "/api/v1/players/ranking?group_by=tier", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Tournaments

func TestTournamentLifecycle(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.createPlayer(t, "ann", 1)
	p2 := ts.createPlayer(t, "ben", 1)
	p3 := ts.createPlayer(t, "cat", 2)
	p4 := ts.createPlayer(t, "dan", 2)

	// Players may be given as ids or embedded objects
	tour := ts.createTournament(t, p1.ID, map[string]string{"id": p2.ID}, p3, p4.ID)
	assert.Equal(t, []string{p1.ID, p2.ID, p3.ID, p4.ID}, tour.Players)
	assert.Empty(t, tour.Teams)
	assert.Nil(t, tour.WinnerTeam)

	base := "/api/v1/tournaments/" + tour.ID

	rr := ts.request(http.MethodPost, base+"/teams/generate", map[string]any{"number_of_teams": "2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tour = decode[response.Tournament](t, rr)
	require.Len(t, tour.Teams, 2)
	assert.Equal(t, []string{p1.ID, p3.ID}, tour.Teams[0].Players)
	assert.Equal(t, []string{p2.ID, p4.ID}, tour.Teams[1].Players)

	rr = ts.request(http.MethodPost, base+"/scores", map[string]any{"scores": []map[string]int{
		{"team_number": 1, "score": 5},
		{"team_number": 2, "score": -3},
		{"team_number": 7, "score": 50},
	}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[response.RecordScoresResponse](t, rr)
	assert.Equal(t, []int{1, 2}, result.AppliedTeams)
	assert.Equal(t, []int{7}, result.SkippedTeams)
	assert.Equal(t, 4, result.PlayersUpdated)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+p3.ID, nil)
	assert.Equal(t, 5, decode[response.Player](t, rr).Score)
	rr = ts.request(http.MethodGet, "/api/v1/players/"+p4.ID, nil)
	assert.Equal(t, -3, decode[response.Player](t, rr).Score)

	rr = ts.request(http.MethodPost, base+"/finish", map[string]int{"winning_team": 9})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeWinningTeamNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/finish", map[string]int{"winning_team": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	tour = decode[response.Tournament](t, rr)
	assert.True(t, tour.IsFinished)
	require.NotNil(t, tour.WinnerTeam)
	assert.Equal(t, 1, *tour.WinnerTeam)

	rr = ts.request(http.MethodGet, "/api/v1/tournaments/finished", nil)
	finished := decode[[]response.FinishedTournament](t, rr)
	require.Len(t, finished, 1)
	assert.Equal(t, 10, finished[0].WinningScore)
	assert.Equal(t, []string{p1.ID, p3.ID}, finished[0].WinningTeam.Players)

	// Finished tournaments are frozen
	for _, req := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, base + "/teams/generate", nil},
		{http.MethodPut, base + "/teams", map[string]any{"teams": []map[string]any{{"team_number": 1, "players": []string{}}}}},
		{http.MethodPost, base + "/scores", map[string]any{"scores": []map[string]int{{"team_number": 1, "score": 1}}}},
		{http.MethodPatch, base, map[string]string{"name": "x"}},
		{http.MethodPut, base + "/players", map[string]any{"players": []string{}}},
		{http.MethodDelete, base, nil},
		{http.MethodPost, base + "/finish", map[string]int{"winning_team": 2}},
	} {
		rr := ts.request(req.method, req.path, req.body)
		assert.Equal(t, http.StatusConflict, rr.Code, "%s %s", req.method, req.path)
		assert.Equal(t, apierr.CodeTournamentFinished, errorCode(t, rr))
	}
}

func TestGenerateTeamsTeamCountParsing(t *testing.T) {
	ts := newTestServer(t)
	var ids []any
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		ids = append(ids, ts.createPlayer(t, name, 1).ID)
	}
	tour := ts.createTournament(t, ids...)
	path := "/api/v1/tournaments/" + tour.ID + "/teams/generate"

	tests := []struct {
		name      string
		body      any
		wantTeams int
	}{
		{name: "no body", body: nil, wantTeams: 2},
		{name: "missing field", body: map[string]any{}, wantTeams: 2},
		{name: "number", body: map[string]any{"number_of_teams": 3}, wantTeams: 3},
		{name: "numeric string", body: map[string]any{"number_of_teams": "6"}, wantTeams: 6},
		{name: "non-numeric string", body: map[string]any{"number_of_teams": "many"}, wantTeams: 2},
		{name: "zero", body: map[string]any{"number_of_teams": 0}, wantTeams: 2},
		{name: "more teams than players", body: map[string]any{"number_of_teams": 8}, wantTeams: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, path, tt.body)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Len(t, decode[response.Tournament](t, rr).Teams, tt.wantTeams)
		})
	}

	for _, count := range []any{-1, 257, 1_000_000_000, 1e300, "99999999999999999999"} {
		rr := ts.request(http.MethodPost, path, map[string]any{"number_of_teams": count})
		assert.Equal(t, http.StatusBadRequest, rr.Code, "%v", count)
		assert.Equal(t, apierr.CodeInvalidTeamCount, errorCode(t, rr), "%v", count)
	}
}

func TestGenerateTeamsWithoutPlayers(t *testing.T) {
	ts := newTestServer(t)
	tour := ts.createTournament(t)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/"+tour.ID+"/teams/generate", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNoPlayersRegistered, errorCode(t, rr))
}

func TestReplaceTeams(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.createPlayer(t, "ann", 1)
	p2 := ts.createPlayer(t, "ben", 1)
	tour := ts.createTournament(t, p1.ID, p2.ID)
	path := "/api/v1/tournaments/" + tour.ID + "/teams"

	rr := ts.request(http.MethodPut, path, map[string]any{"teams": []map[string]any{
		{"team_number": 4, "players": []any{map[string]string{"id": p2.ID}}},
		{"team_number": 9, "players": []string{p1.ID}},
	}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	teams := decode[response.Tournament](t, rr).Teams
	assert.Equal(t, []response.Team{
		{TeamNumber: 4, Players: []string{p2.ID}},
		{TeamNumber: 9, Players: []string{p1.ID}},
	}, teams)

	rr = ts.request(http.MethodPut, path, map[string]any{"teams": []map[string]any{
		{"team_number": 1, "players": []string{}},
		{"team_number": 1, "players": []string{}},
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTeams, errorCode(t, rr))

	rr = ts.request(http.MethodPut, path, map[string]any{"teams": []map[string]any{
		{"team_number": 1, "players": []string{p1.ID, p2.ID}},
		{"team_number": 2, "players": []string{p1.ID}},
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTeams, errorCode(t, rr))

	rr = ts.request(http.MethodPut, path, map[string]any{"teams": []map[string]any{
		{"team_number": 1, "players": []string{p1.ID, "ghost"}},
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTeams, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/tournaments/"+tour.ID, nil)
	assert.Equal(t, teams, decode[response.Tournament](t, rr).Teams)

	rr = ts.request(http.MethodPut, path, map[string]any{"teams": []map[string]any{{"team_number": 1}}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, strings.Contains(decode[apierr.ErrorResponse](t, rr).Error.Message, "players"))
}

func TestRecordScoresWithoutTeams(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "ann", 1)
	tour := ts.createTournament(t, p.ID)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments/"+tour.ID+"/scores", map[string]any{"scores": []map[string]int{{"team_number": 1, "score": 1}}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNoTeams, errorCode(t, rr))
}

func TestUpdateAndDeleteTournament(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "ann", 1)
	tour := ts.createTournament(t)
	base := "/api/v1/tournaments/" + tour.ID

	rr := ts.request(http.MethodPut, base+"/players", map[string]any{"players": []string{p.ID}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{p.ID}, decode[response.Tournament](t, rr).Players)

	rr = ts.request(http.MethodPut, base+"/players", map[string]any{"players": []string{"ghost"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPatch, base, map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Renamed", decode[response.Tournament](t, rr).Name)

	rr = ts.request(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeTournamentNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/tournaments", nil)
	assert.Empty(t, decode[[]response.Tournament](t, rr))
}
