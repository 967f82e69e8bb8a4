package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/acs-tournaments/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game catalogue commands",
	}

	cmd.AddCommand(newGameAddCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())

	return cmd
}

func newGameAddCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":        name,
				"description": description,
			}
			var result response.Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Game description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Game

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", url.PathEscape(args[0])), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
