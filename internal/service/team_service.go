package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskscope/internal/authz"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamService handles business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	resolver authz.Resolver
	effects  SideEffects
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	resolver authz.Resolver,
	effects SideEffects,
) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		resolver: resolver,
		effects:  effects,
	}
}

// CreateTeam creates a team. The creator becomes its first admin; listed users
// join as members.
func (s *TeamService) CreateTeam(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*Mutation[*models.Team], error) {
	memberIDs, err := parseIDs(req.Members)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
		Members: []models.TeamMember{
			{User: actor.ID, Role: models.TeamRoleAdmin, JoinedAt: now},
		},
	}
	for _, id := range memberIDs {
		if id == actor.ID {
			continue
		}
		team.Members = append(team.Members, models.TeamMember{User: id, Role: models.TeamRoleMember, JoinedAt: now})
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	warnings := s.syncMembership(ctx, team.ID, team.MemberIDs(), true)
	out := s.effects.Run(ctx, pipeline.Mutation{Kind: pipeline.TeamCreated, Actor: actor, Team: team})

	result := committed(team, out)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// ListTeams returns the teams in the actor's scope.
func (s *TeamService) ListTeams(ctx context.Context, actor models.Actor) (*models.TeamListResponse, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
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

	return &models.TeamListResponse{Items: teams}, nil
}

// GetTeam retrieves a visible team.
func (s *TeamService) GetTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*models.Team, error) {
	team, _, err := s.visibleTeam(ctx, actor, teamID)
	return team, err
}

// UpdateTeam updates a team's name and description.
func (s *TeamService) UpdateTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*Mutation[*models.Team], error) {
	team, scope, err := s.visibleTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if !scope.CanPerform(team, authz.ActionTeamUpdate) {
		return nil, apperrors.ErrUnauthorized
	}

	changes := map[string]interface{}{}
	if req.Name != nil && *req.Name != team.Name {
		changes["name"] = *req.Name
		team.Name = *req.Name
	}
	if req.Description != nil && *req.Description != team.Description {
		changes["description"] = *req.Description
		team.Description = *req.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.TeamUpdated,
		Actor:   actor,
		Team:    team,
		Details: map[string]interface{}{"changes": changes},
	})
	return committed(team, out), nil
}

// DeleteTeam removes a team. Projects keep their links; a dangling team id simply
// matches no scope.
func (s *TeamService) DeleteTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*Mutation[*models.Team], error) {
	team, scope, err := s.visibleTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if !scope.CanPerform(team, authz.ActionTeamDelete) {
		return nil, apperrors.ErrUnauthorized
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return nil, err
	}

	warnings := s.syncMembership(ctx, team.ID, team.MemberIDs(), false)
	out := s.effects.Run(ctx, pipeline.Mutation{Kind: pipeline.TeamDeleted, Actor: actor, Team: team})

	result := committed(team, out)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// AddMember adds a user to a team with the requested team role.
func (s *TeamService) AddMember(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.AddMemberRequest) (*Mutation[*models.Team], error) {
	team, scope, err := s.visibleTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if !scope.CanPerform(team, authz.ActionMemberAdd) {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if team.HasMember(userID) {
		return nil, apperrors.ErrAlreadyMember
	}

	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}
	member := models.TeamMember{User: userID, Role: role, JoinedAt: time.Now()}
	if err := s.teamRepo.AddMember(ctx, teamID, member); err != nil {
		return nil, err
	}
	team.Members = append(team.Members, member)

	warnings := s.syncMembership(ctx, team.ID, []primitive.ObjectID{userID}, true)
	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:   pipeline.MemberAdded,
		Actor:  actor,
		Team:   team,
		Member: &member,
	})

	result := committed(team, out)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// RemoveMember removes a user from a team. Members may remove themselves; the
// creator can never be removed.
func (s *TeamService) RemoveMember(ctx context.Context, actor models.Actor, teamID, userID primitive.ObjectID) (*Mutation[*models.Team], error) {
	team, scope, err := s.visibleTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if userID != actor.ID && !scope.CanPerform(team, authz.ActionMemberRemove) {
		return nil, apperrors.ErrUnauthorized
	}
	if userID == team.CreatedBy {
		return nil, apperrors.ErrCannotRemoveSelf
	}

	var removed *models.TeamMember
	kept := make([]models.TeamMember, 0, len(team.Members))
	for i := range team.Members {
		if team.Members[i].User == userID {
			m := team.Members[i]
			removed = &m
			continue
		}
		kept = append(kept, team.Members[i])
	}
	if removed == nil {
		return nil, apperrors.ErrNotTeamMember
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	team.Members = kept

	warnings := s.syncMembership(ctx, team.ID, []primitive.ObjectID{userID}, false)
	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:   pipeline.MemberRemoved,
		Actor:  actor,
		Team:   team,
		Member: removed,
	})

	result := committed(team, out)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// visibleTeam loads a team and the actor's scope. Teams outside the scope are
// reported as not found.
func (s *TeamService) visibleTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*models.Team, *authz.Scope, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	caps, err := scope.CapabilitiesFor(team)
	if err != nil {
		return nil, nil, err
	}
	if !caps.Read {
		return nil, nil, apperrors.ErrTeamNotFound
	}

	return team, scope, nil
}

// syncMembership mirrors team membership onto user documents. The team write is
// already committed, so a failure here is reported as a warning.
func (s *TeamService) syncMembership(ctx context.Context, teamID primitive.ObjectID, userIDs []primitive.ObjectID, add bool) []string {
	var err error
	if add {
		err = s.userRepo.AddTeam(ctx, userIDs, teamID)
	} else {
		err = s.userRepo.RemoveTeam(ctx, userIDs, teamID)
	}
	if err != nil {
		log.Printf("Failed to sync membership of team %s: %v", teamID.Hex(), err)
		return []string{fmt.Sprintf("membership sync failed: %v", err)}
	}
	return nil
}
