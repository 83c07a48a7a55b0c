package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/permissiondemo/cmd/permissiondemo/internal/scenario"
	"github.com/go-drift/permissiondemo/pkg/screen"
)

func newRunCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a scenario and draw the dialogs after each step",
		Long: `Replay a scenario file against the simulated permission flow.

Without --scenario the built-in walkthrough runs: one camera request, a
second camera denial, a batched request, a trip to the settings page and
the dialogs being dismissed.`,
		Example: "  permissiondemo run\n  permissiondemo run --scenario scenarios/two_denials.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := scenario.Default()
			if path != "" {
				var err error
				if s, err = scenario.Load(path); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			res, err := scenario.Run(ctx, s, scenario.Options{
				Out:    cmd.OutOrStdout(),
				Logger: a.log,
				Host: screen.Options{
					SinglePermission: a.cfg.Single,
					Permissions:      a.cfg.Batch,
					RequestTimeout:   a.cfg.RequestTimeout,
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d steps, %d prompts, settings opened %d times\n",
				res.Steps, len(res.Prompts), res.SettingsOpened)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "scenario", "s", "", "scenario file to replay")
	return cmd
}
