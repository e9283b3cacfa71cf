package commands

import (
	"taskscope/internal/models"
	"taskscope/internal/service"

	"github.com/spf13/cobra"
)

func newExportCmd(open ServiceFactory, opts *options) *cobra.Command {
	export := &cobra.Command{
		Use:   "export",
		Short: "Build task or project reports",
		Long: `Build a report of every task or project visible to the acting user.
With --archive the report is also stored in object storage and a download URL is printed.`,
	}
	export.PersistentFlags().BoolVar(&opts.archive, "archive", false, "store the report and print a download URL")

	export.AddCommand(&cobra.Command{
		Use:   "tasks",
		Short: "Export the task list",
		Args:  cobra.NoArgs,
		RunE: withService(open, opts, func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error {
			out, err := svc.ExportTasks(cmd.Context(), actor, opts.archive)
			if err != nil {
				return err
			}
			return writeExport(cmd, opts, out)
		}),
	})

	export.AddCommand(&cobra.Command{
		Use:   "projects",
		Short: "Export the project list",
		Args:  cobra.NoArgs,
		RunE: withService(open, opts, func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error {
			out, err := svc.ExportProjects(cmd.Context(), actor, opts.archive)
			if err != nil {
				return err
			}
			return writeExport(cmd, opts, out)
		}),
	})

	return export
}
