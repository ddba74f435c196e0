package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
		Long: `Play a game over the API.

'game start' remembers the new game, so later commands act on it unless
--game is given.`,
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameBeginCmd())
	cmd.AddCommand(newGameExtendCmd())
	cmd.AddCommand(newGameReleaseCmd())
	cmd.AddCommand(newGameTraceCmd())
	cmd.AddCommand(newGameHintCmd())
	cmd.AddCommand(newGameBotCmd())
	cmd.AddCommand(newGameEndCmd())

	return cmd
}

func gamePath(id, suffix string) string {
	return "/api/v1/games/" + id + suffix
}

func newGameStartCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post("/api/v1/games", map[string]string{"team_name": team}, &result); err != nil {
				return err
			}
			if err := cfg.SaveGameID(result.ID); err != nil {
				return fmt.Errorf("failed to remember game: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team name (default: server default)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			var result GameState
			if err := client.Get(gamePath(id, ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameBeginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "begin <row> <col>",
		Short: "Start a selection on a tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}

			var result GameState
			if err := client.Post(gamePath(id, "/selection/begin"), pos, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameExtendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extend <row> <col>",
		Short: "Drag the selection onto a tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}

			var result GameState
			if err := client.Post(gamePath(id, "/selection/extend"), pos, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: "Release the selection and submit its word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			var result ReleaseResult
			if err := client.Post(gamePath(id, "/selection/release"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <row,col>...",
		Short: "Begin, extend and release in one go",
		Example: `  wordcrush game trace 0,0 0,1 1,2 2,2`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			path := make([]Position, len(args))
			for i, arg := range args {
				row, col, ok := strings.Cut(arg, ",")
				if !ok {
					return fmt.Errorf("invalid position %q: expected row,col", arg)
				}
				if path[i], err = parsePosition(row, col); err != nil {
					return err
				}
			}

			if err := client.Post(gamePath(id, "/selection/begin"), path[0], nil); err != nil {
				return err
			}
			for _, pos := range path[1:] {
				if err := client.Post(gamePath(id, "/selection/extend"), pos, nil); err != nil {
					return err
				}
			}

			var result ReleaseResult
			if err := client.Post(gamePath(id, "/selection/release"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameHintCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Show a word the bot can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			path := gamePath(id, "/hint")
			if strategy != "" {
				path += "?strategy=" + strategy
			}

			var result Hint
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: best, random")

	return cmd
}

func newGameBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Let the bot play one word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			var result ReleaseResult
			if err := client.Post(gamePath(id, "/bot/play"), map[string]string{"strategy": strategy}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: best, random")

	return cmd
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Run the clock out now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.RequireGameID()
			if err != nil {
				return err
			}

			var result GameSummary
			if err := client.Delete(gamePath(id, ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func parsePosition(rowArg, colArg string) (Position, error) {
	row, err := strconv.Atoi(strings.TrimSpace(rowArg))
	if err != nil {
		return Position{}, fmt.Errorf("invalid row: %w", err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colArg))
	if err != nil {
		return Position{}, fmt.Errorf("invalid col: %w", err)
	}
	return Position{Row: row, Col: col}, nil
}
