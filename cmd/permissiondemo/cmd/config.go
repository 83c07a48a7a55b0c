package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := map[string]any{
				"app": map[string]string{
					"name": a.cfg.AppName,
					"id":   a.cfg.AppID,
				},
				"permissions": map[string]any{
					"single":          string(a.cfg.Single),
					"batch":           a.cfg.Batch,
					"request_timeout": a.cfg.RequestTimeout.String(),
				},
				"log": map[string]any{
					"level":   a.log.GetLevel().String(),
					"verbose": a.cfg.Verbose,
				},
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
