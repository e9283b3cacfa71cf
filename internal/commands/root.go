// Package commands implements the reportctl command line.
package commands

import (
	"context"
	"fmt"

	"taskscope/internal/authz"
	"taskscope/internal/cache"
	"taskscope/internal/config"
	"taskscope/internal/database"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	"taskscope/internal/repository"
	"taskscope/internal/service"
	"taskscope/internal/storage"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ServiceFactory opens a report service and returns a func releasing its
// connections.
type ServiceFactory func(ctx context.Context) (service.ReportServicer, func(), error)

type options struct {
	user    string
	role    string
	json    bool
	archive bool
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command against the configured database.
func Execute() error {
	return NewRootCmd(openReportService).Execute()
}

// NewRootCmd builds the command tree. Every subcommand obtains its service from
// open.
func NewRootCmd(open ServiceFactory) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Statistics and report exports for taskscope",
		Long: `reportctl computes the same statistics and exports as the API, scoped to the
user given with --user and --role. Output is a table per sheet, or JSON with --json.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "acting user id (required)")
	root.PersistentFlags().StringVarP(&opts.role, "role", "r", models.RoleSuperAdmin, "acting role: member, admin, superadmin")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of tables")

	root.AddCommand(newStatsCmd(open, opts))
	root.AddCommand(newExportCmd(open, opts))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reportctl %s (%s, %s)\n", version, commit, date)
		},
	})
	return root
}

// withService wraps a command body with actor parsing and service setup.
func withService(open ServiceFactory, opts *options, fn func(cmd *cobra.Command, args []string, svc service.ReportServicer, actor models.Actor) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		actor, err := opts.actor()
		if err != nil {
			return err
		}

		svc, closeFn, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return fn(cmd, args, svc, actor)
	}
}

func (o *options) actor() (models.Actor, error) {
	if o.user == "" {
		return models.Actor{}, fmt.Errorf("--user is required")
	}
	id, err := primitive.ObjectIDFromHex(o.user)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid --user %q: %w", o.user, err)
	}
	if !models.IsValidRole(o.role) {
		return models.Actor{}, fmt.Errorf("invalid --role %q", o.role)
	}
	return models.NewActor(id, o.role), nil
}

// openReportService wires the report service the same way the server does.
func openReportService(ctx context.Context) (service.ReportServicer, func(), error) {
	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	redisCache := cache.NewRedis(cfg.RedisURI)

	var store storage.Storage
	if cfg.S3Endpoint != "" {
		store = storage.NewS3Client(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
	}

	teamRepo := repository.NewTeamRepository(mongoDB.Database)
	projectRepo := repository.NewProjectRepository(mongoDB.Database)
	effects := pipeline.New(
		repository.NewHistoryRepository(mongoDB.Database),
		repository.NewNotificationRepository(mongoDB.Database),
		nil,
	)

	svc := service.NewReportService(
		repository.NewTaskRepository(mongoDB.Database),
		projectRepo,
		teamRepo,
		service.NewUserService(repository.NewUserRepository(mongoDB.Database), redisCache, effects),
		authz.NewLocalResolver(teamRepo, projectRepo),
		store,
		cfg.ReportURLExpiry,
	)

	closeFn := func() {
		redisCache.Close()
		mongoDB.Close()
	}
	return svc, closeFn, nil
}
