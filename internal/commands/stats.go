package commands

import (
	"fmt"

	"taskscope/internal/models"
	"taskscope/internal/service"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newStatsCmd(open ServiceFactory, opts *options) *cobra.Command {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
	}

	stats.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Summary with status, priority and project breakdowns",
		Args:  cobra.NoArgs,
		RunE: withService(open, opts, func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error {
			result, err := svc.Dashboard(cmd.Context(), actor)
			if err != nil {
				return err
			}
			return writeResult(cmd, opts, result)
		}),
	})

	stats.AddCommand(&cobra.Command{
		Use:   "project <project-id>",
		Short: "Statistics for one project, with a member breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: withService(open, opts, func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			result, err := svc.ProjectReport(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			return writeResult(cmd, opts, result)
		}),
	})

	stats.AddCommand(&cobra.Command{
		Use:   "team <team-id>",
		Short: "Statistics for one team, with a member breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: withService(open, opts, func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error {
			id, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			result, err := svc.TeamReport(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			return writeResult(cmd, opts, result)
		}),
	})

	return stats
}

func parseID(kind, s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
