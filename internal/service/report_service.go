package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskscope/internal/aggregate"
	"taskscope/internal/authz"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/report"
	"taskscope/internal/repository"
	"taskscope/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report kinds, used in archive keys.
const (
	ReportKindTasks    = "tasks"
	ReportKindProjects = "projects"
)

// Export is a built report, with a download URL when it was archived.
type Export struct {
	Report *report.Report `json:"report"`
	URL    string         `json:"url,omitempty"`
}

// ReportService computes statistics and exports. Task reads here use the report
// narrowing: non-superadmins only see tasks assigned to or created by them.
type ReportService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	users       UserServicer
	resolver    authz.Resolver
	storage     storage.Storage
	urlExpiry   time.Duration
	now         func() time.Time
}

// NewReportService creates a new ReportService. store may be nil, in which case
// archiving is unavailable.
func NewReportService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	users UserServicer,
	resolver authz.Resolver,
	store storage.Storage,
	urlExpiry time.Duration,
) *ReportService {
	return &ReportService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		users:       users,
		resolver:    resolver,
		storage:     store,
		urlExpiry:   urlExpiry,
		now:         time.Now,
	}
}

// Dashboard returns the summary with status, priority and per-project breakdowns.
func (s *ReportService) Dashboard(ctx context.Context, actor models.Actor) (*aggregate.Result, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.Find(ctx, scope.ProjectFilter())
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.Find(ctx, scope.ReportTaskFilter())
	if err != nil {
		return nil, err
	}

	return aggregate.Aggregate(ctx, tasks, aggregate.Request{
		Dimensions: []aggregate.Dimension{aggregate.DimensionStatus, aggregate.DimensionPriority, aggregate.DimensionProject},
		Projects:   nonNilProjects(projects),
		Now:        s.now(),
	})
}

// ProjectReport returns one project's summary with priority and per-member
// breakdowns over the members of its linked teams.
func (s *ReportService) ProjectReport(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*aggregate.Result, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	caps, err := scope.CapabilitiesFor(project)
	if err != nil {
		return nil, err
	}
	if !caps.ReportExport {
		return nil, apperrors.ErrProjectNotFound
	}

	teams, err := s.teamRepo.FindByIDs(ctx, project.TeamIDs())
	if err != nil {
		return nil, err
	}
	var memberIDs []primitive.ObjectID
	for i := range teams {
		memberIDs = append(memberIDs, teams[i].MemberIDs()...)
	}
	members, err := s.members(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	filter := scope.ReportTaskFilter()
	filter.AllProjects = false
	filter.ProjectIDs = []primitive.ObjectID{project.ID}
	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return aggregate.Aggregate(ctx, tasks, aggregate.Request{
		Dimensions: []aggregate.Dimension{aggregate.DimensionPriority, aggregate.DimensionMember},
		Members:    members,
		Now:        s.now(),
	})
}

// TeamReport returns the summary and per-member breakdown for a team's projects.
func (s *ReportService) TeamReport(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*aggregate.Result, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	caps, err := scope.CapabilitiesFor(team)
	if err != nil {
		return nil, err
	}
	if !caps.ReportExport {
		return nil, apperrors.ErrTeamNotFound
	}

	projects, err := s.projectRepo.Find(ctx, repository.ProjectFilter{TeamIDs: []primitive.ObjectID{team.ID}})
	if err != nil {
		return nil, err
	}
	members, err := s.members(ctx, team.MemberIDs())
	if err != nil {
		return nil, err
	}

	filter := scope.ReportTaskFilter()
	filter.AllProjects = false
	filter.ProjectIDs = make([]primitive.ObjectID, 0, len(projects))
	for i := range projects {
		filter.ProjectIDs = append(filter.ProjectIDs, projects[i].ID)
	}
	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return aggregate.Aggregate(ctx, tasks, aggregate.Request{
		Dimensions: []aggregate.Dimension{aggregate.DimensionStatus, aggregate.DimensionMember},
		Members:    members,
		Now:        s.now(),
	})
}

// ExportTasks builds the task report: summary, status and priority sheets, then
// the task listing.
func (s *ReportService) ExportTasks(ctx context.Context, actor models.Actor, archive bool) (*Export, error) {
	if archive && s.storage == nil {
		return nil, apperrors.ErrArchiveUnavailable
	}

	scope, tasks, projects, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()

	result, err := aggregate.Aggregate(ctx, tasks, aggregate.Request{
		Dimensions: []aggregate.Dimension{aggregate.DimensionStatus, aggregate.DimensionPriority},
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	dir, err := s.directory(ctx, scope, tasks, projects)
	if err != nil {
		return nil, err
	}
	rep := report.NewBuilder(dir).
		Aggregates(result).
		Tasks(tasks, now).
		Build(now)

	return s.export(ctx, actor, ReportKindTasks, rep, archive)
}

// ExportProjects builds the project report: the per-project breakdown followed by
// the project listing.
func (s *ReportService) ExportProjects(ctx context.Context, actor models.Actor, archive bool) (*Export, error) {
	if archive && s.storage == nil {
		return nil, apperrors.ErrArchiveUnavailable
	}

	scope, tasks, projects, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()

	dir, err := s.directory(ctx, scope, tasks, projects)
	if err != nil {
		return nil, err
	}
	rep := report.NewBuilder(dir).
		ByProject(aggregate.ByProject(projects, tasks, now)).
		Projects(projects, tasks).
		Build(now)

	return s.export(ctx, actor, ReportKindProjects, rep, archive)
}

func (s *ReportService) load(ctx context.Context, actor models.Actor) (*authz.Scope, []models.Task, []models.Project, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, nil, nil, err
	}
	projects, err := s.projectRepo.Find(ctx, scope.ProjectFilter())
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := s.taskRepo.Find(ctx, scope.ReportTaskFilter())
	if err != nil {
		return nil, nil, nil, err
	}
	return scope, tasks, projects, nil
}

// directory resolves every user, project and team referenced by the listings.
func (s *ReportService) directory(ctx context.Context, scope *authz.Scope, tasks []models.Task, projects []models.Project) (*report.Directory, error) {
	var userIDs []primitive.ObjectID
	for i := range tasks {
		userIDs = append(userIDs, tasks[i].AssignedTo...)
		userIDs = append(userIDs, tasks[i].CreatedBy)
	}
	for i := range projects {
		userIDs = append(userIDs, projects[i].CreatedBy)
	}
	users, err := s.users.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if scope.Unbounded {
		teams, err = s.teamRepo.FindAll(ctx)
	} else {
		teams, err = s.teamRepo.FindByIDs(ctx, scope.TeamIDs)
	}
	if err != nil {
		return nil, err
	}

	return report.NewDirectory(users, projects, teams), nil
}

// members resolves display names, keeping the order of ids.
func (s *ReportService) members(ctx context.Context, ids []primitive.ObjectID) ([]aggregate.Member, error) {
	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	members := make([]aggregate.Member, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, aggregate.Member{ID: id, Name: names[id]})
	}
	return members, nil
}

// export archives the report when requested and returns a presigned download URL.
func (s *ReportService) export(ctx context.Context, actor models.Actor, kind string, rep *report.Report, archive bool) (*Export, error) {
	out := &Export{Report: rep}
	if !archive {
		return out, nil
	}

	body, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	key := storage.ReportKey(actor.ID.Hex(), kind, rep.GeneratedAt)
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return nil, err
	}
	url, err := s.storage.GetPresignedURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, err
	}
	out.URL = url
	return out, nil
}

func nonNilProjects(projects []models.Project) []models.Project {
	if projects == nil {
		return []models.Project{}
	}
	return projects
}
