package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipescope/pipescope/pkg/config"
	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/graph"
	"github.com/pipescope/pipescope/pkg/scene"
)

// newSceneCmd creates the scene command group for the configured store.
func newSceneCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect and manage stored scenes",
		Long: `Scene operates directly on the configured scene store, without going
through the HTTP API. The default configuration uses the in-memory
backend, which is empty in a fresh process; point --config at a file or
remote backend to see persisted scenes.`,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	cmd.AddCommand(newSceneListCmd(&configPath))
	cmd.AddCommand(newSceneShowCmd(&configPath))
	cmd.AddCommand(newSceneDeleteCmd(&configPath))
	return cmd
}

// openStore loads configuration and opens the selected scene store.
func openStore(cmd *cobra.Command, configPath string) (scene.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newStore(cmd.Context(), cfg)
}

func newSceneListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scene names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("no scenes stored")
				return nil
			}
			for _, name := range names {
				printDetail("%s", name)
			}
			return nil
		},
	}
}

func newSceneShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a scene document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			doc, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", args[0])
			}

			data, err := graph.MarshalGraph(doc.Graph)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
}

func newSceneDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}
}
