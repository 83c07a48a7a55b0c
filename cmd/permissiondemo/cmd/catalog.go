package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/permissiondemo/pkg/rationale"
	"github.com/go-drift/permissiondemo/pkg/screen"
	"github.com/go-drift/permissiondemo/pkg/termui"
)

func newCatalogCmd(a *app) *cobra.Command {
	var declined bool
	cmd := &cobra.Command{
		Use:   "catalog [permission...]",
		Short: "Print the rationale dialogs for each supported permission",
		Long: `Print the rationale dialog of each permission. Permissions may be given in
full ("android.permission.CAMERA") or short ("CAMERA") form; without
arguments every supported permission is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]rationale.PermissionID, 0, len(args))
			for _, arg := range args {
				ids = append(ids, rationale.PermissionID(arg))
			}
			if len(ids) == 0 {
				for _, k := range rationale.Kinds() {
					ids = append(ids, k.Permission())
				}
			}

			ui := termui.NewRenderer(cmd.OutOrStdout())
			for _, id := range ids {
				normal, err := screen.NewDialog(id, false)
				if err != nil {
					return err
				}
				a.log.WithField("permission", normal.Permission).Debug("rendering catalog entry")
				fmt.Fprintln(cmd.OutOrStdout(), ui.Status("%s (%s)", normal.Kind, normal.Permission))
				fmt.Fprintln(cmd.OutOrStdout(), ui.Dialog(normal, !declined))
				if declined {
					permanent, err := screen.NewDialog(id, true)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), ui.Dialog(permanent, true))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&declined, "declined", false, "also print the permanently declined variant")
	return cmd
}
