package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mcoot/acs-tournaments/internal/api/response"
)

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tournament",
		Aliases: []string{"t"},
		Short:   "Tournament lifecycle commands",
	}

	cmd.AddCommand(newTournamentAddCmd())
	cmd.AddCommand(newTournamentListCmd())
	cmd.AddCommand(newTournamentFinishedCmd())
	cmd.AddCommand(newTournamentGetCmd())
	cmd.AddCommand(newTournamentUpdateCmd())
	cmd.AddCommand(newTournamentRegisterCmd())
	cmd.AddCommand(newTournamentGenerateCmd())
	cmd.AddCommand(newTournamentTeamsCmd())
	cmd.AddCommand(newTournamentRecordCmd())
	cmd.AddCommand(newTournamentFinishCmd())
	cmd.AddCommand(newTournamentDeleteCmd())

	return cmd
}

func tournamentPath(id string) string {
	return fmt.Sprintf("/api/v1/tournaments/%s", url.PathEscape(id))
}

func newTournamentAddCmd() *cobra.Command {
	var (
		name    string
		gameID  string
		players []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a tournament",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":    name,
				"players": lo.Ternary(players == nil, []string{}, players),
			}
			if gameID != "" {
				req["game_id"] = gameID
			}
			var result response.Tournament

			if err := client.Post("/api/v1/tournaments", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tournament name (required)")
	cmd.Flags().StringVar(&gameID, "game", "", "Game played in the tournament")
	cmd.Flags().StringSliceVar(&players, "player", nil, "Player ID to register (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTournamentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tournaments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Tournament

			if err := client.Get("/api/v1/tournaments", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentFinishedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finished",
		Short: "List finished tournaments with their winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.FinishedTournament

			if err := client.Get("/api/v1/tournaments/finished", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Tournament

			if err := client.Get(tournamentPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentUpdateCmd() *cobra.Command {
	var name, gameID string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a tournament or change its game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("name") {
				req["name"] = name
			}
			if cmd.Flags().Changed("game") {
				req["game_id"] = gameID
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one of --name or --game is required")
			}
			var result response.Tournament

			if err := client.Patch(tournamentPath(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&gameID, "game", "", "New game ID")

	return cmd
}

func newTournamentRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <id> [player-id...]",
		Short: "Replace the registered players",
		Long:  "Replace the tournament's registered players. With no player IDs the registration is cleared.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string][]string{"players": append([]string{}, args[1:]...)}
			var result response.Tournament

			if err := client.Put(tournamentPath(args[0])+"/players", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentGenerateCmd() *cobra.Command {
	var teams int

	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate balanced teams from the registered players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req any
			if cmd.Flags().Changed("teams") {
				req = map[string]int{"number_of_teams": teams}
			}
			var result response.Tournament

			if err := client.Post(tournamentPath(args[0])+"/teams/generate", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&teams, "teams", 0, "Number of teams (default: server default)")

	return cmd
}

func newTournamentTeamsCmd() *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "teams <id>",
		Short: "Replace the teams by hand",
		Long: `Replace the tournament's teams. Each --team flag takes NUMBER=PLAYER[,PLAYER...],
for example --team 1=alice,bob --team 2=carol,dave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := parseTeams(values)
			if err != nil {
				return err
			}
			req := map[string]any{"teams": teams}
			var result response.Tournament

			if err := client.Put(tournamentPath(args[0])+"/teams", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&values, "team", nil, "Team as NUMBER=PLAYER[,PLAYER...] (repeatable)")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func newTournamentRecordCmd() *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "record <id>",
		Short: "Record a round of team scores",
		Long: `Add each team's round score to its members. Each --score flag takes
TEAM=POINTS, for example --score 1=10 --score 2=-2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseScores(values)
			if err != nil {
				return err
			}
			req := map[string]any{"scores": scores}
			var result response.RecordScoresResponse

			if err := client.Post(tournamentPath(args[0])+"/scores", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&values, "score", nil, "Team score as TEAM=POINTS (repeatable)")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newTournamentFinishCmd() *cobra.Command {
	var winner int

	cmd := &cobra.Command{
		Use:   "finish <id>",
		Short: "Finish a tournament and record the winning team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"winning_team": winner}
			var result response.Tournament

			if err := client.Post(tournamentPath(args[0])+"/finish", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&winner, "winner", 0, "Winning team number (required)")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func newTournamentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(tournamentPath(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted tournament %s", args[0]))
			return nil
		},
	}
}

type teamAssignment struct {
	TeamNumber int      `json:"team_number"`
	Players    []string `json:"players"`
}

type scoreAssignment struct {
	TeamNumber int `json:"team_number"`
	Score      int `json:"score"`
}

// parseTeams parses NUMBER=PLAYER[,PLAYER...] flags
func parseTeams(values []string) ([]teamAssignment, error) {
	teams := make([]teamAssignment, 0, len(values))
	for _, s := range values {
		number, value, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		players := lo.Compact(lo.Map(strings.Split(value, ","), func(p string, _ int) string {
			return strings.TrimSpace(p)
		}))
		if len(players) == 0 {
			return nil, fmt.Errorf("team %d has no players", number)
		}
		teams = append(teams, teamAssignment{TeamNumber: number, Players: players})
	}
	return teams, nil
}

// parseScores parses TEAM=POINTS flags
func parseScores(values []string) ([]scoreAssignment, error) {
	scores := make([]scoreAssignment, 0, len(values))
	for _, s := range values {
		number, value, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		points, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid score %q for team %d", value, number)
		}
		scores = append(scores, scoreAssignment{TeamNumber: number, Score: points})
	}
	return scores, nil
}

func splitAssignment(s string) (int, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", fmt.Errorf("invalid value %q, expected NUMBER=VALUE", s)
	}
	number, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || number < 1 {
		return 0, "", fmt.Errorf("invalid team number %q", key)
	}
	return number, value, nil
}
