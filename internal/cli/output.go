package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == OutputJSON {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	case response.Game:
		o.printGames([]response.Game{v})
	case []response.Game:
		o.printGames(v)
	case response.Player:
		o.printPlayer(v)
	case []response.Player:
		o.printPlayers(v)
	case []response.RankingEntry:
		o.printRanking(v)
	case response.Tournament:
		o.printTournament(v)
	case []response.Tournament:
		o.printTournaments(v)
	case []response.FinishedTournament:
		o.printFinished(v)
	case response.RecordScoresResponse:
		o.printRecordResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) table(header string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, header)
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func (o *Output) printGames(games []response.Game) {
	if len(games) == 0 {
		o.printf("No games\n")
		return
	}
	o.table("ID\tNAME\tDESCRIPTION", lo.Map(games, func(g response.Game, _ int) []string {
		return []string{g.ID, g.Name, g.Description}
	}))
}

func (o *Output) printPlayer(p response.Player) {
	o.printf("Player: %s (%s)\n", p.Name, p.ID)
	o.printf("Tier: %d\n", p.Tier)
	o.printf("Score: %d\n", p.Score)
	if p.GameID != "" {
		o.printf("Game: %s\n", p.GameID)
	}
}

func (o *Output) printPlayers(players []response.Player) {
	if len(players) == 0 {
		o.printf("No players\n")
		return
	}
	o.table("ID\tNAME\tTIER\tSCORE\tGAME", lo.Map(players, func(p response.Player, _ int) []string {
		return []string{p.ID, p.Name, fmt.Sprint(p.Tier), fmt.Sprint(p.Score), p.GameID}
	}))
}

func (o *Output) printRanking(entries []response.RankingEntry) {
	if len(entries) == 0 {
		o.printf("No players\n")
		return
	}
	o.table("#\tNAME\tSCORE\tGAMES", lo.Map(entries, func(e response.RankingEntry, i int) []string {
		return []string{fmt.Sprint(i + 1), e.Name, fmt.Sprint(e.TotalScore), fmt.Sprint(e.GamesCount)}
	}))
}

func (o *Output) printTournament(t response.Tournament) {
	o.printf("Tournament: %s (%s)\n", t.Name, t.ID)
	if t.GameID != "" {
		o.printf("Game: %s\n", t.GameID)
	}
	state := "open"
	if t.IsFinished {
		state = "finished"
	}
	o.printf("State: %s\n", state)
	if t.WinnerTeam != nil {
		o.printf("Winner: team %d\n", *t.WinnerTeam)
	}
	o.printf("Players (%d): %s\n", len(t.Players), strings.Join(t.Players, ", "))
	for _, team := range t.Teams {
		o.printf("  Team %d: %s\n", team.TeamNumber, strings.Join(team.Players, ", "))
	}
}

func (o *Output) printTournaments(tournaments []response.Tournament) {
	if len(tournaments) == 0 {
		o.printf("No tournaments\n")
		return
	}
	o.table("ID\tNAME\tPLAYERS\tTEAMS\tFINISHED", lo.Map(tournaments, func(t response.Tournament, _ int) []string {
		return []string{t.ID, t.Name, fmt.Sprint(len(t.Players)), fmt.Sprint(len(t.Teams)), fmt.Sprint(t.IsFinished)}
	}))
}

func (o *Output) printFinished(finished []response.FinishedTournament) {
	if len(finished) == 0 {
		o.printf("No finished tournaments\n")
		return
	}
	o.table("ID\tNAME\tWINNER\tSCORE\tPLAYERS", lo.Map(finished, func(f response.FinishedTournament, _ int) []string {
		winner, members := "-", ""
		if f.WinningTeam != nil {
			winner = fmt.Sprint(f.WinningTeam.TeamNumber)
			members = strings.Join(f.WinningTeam.Players, ", ")
		}
		return []string{f.ID, f.Name, winner, fmt.Sprint(f.WinningScore), members}
	}))
}

func (o *Output) printRecordResult(r response.RecordScoresResponse) {
	o.printf("Applied teams: %s\n", joinInts(r.AppliedTeams))
	if len(r.SkippedTeams) > 0 {
		o.printf("Skipped teams: %s\n", joinInts(r.SkippedTeams))
	}
	o.printf("Players updated: %d\n", r.PlayersUpdated)
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(values, func(v int, _ int) string { return fmt.Sprint(v) }), ", ")
}
