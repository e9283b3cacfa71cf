// Package errors provides custom error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Core taxonomy. Entity-specific errors below wrap these so callers can match
// either the specific or the general form with errors.Is.
var (
	ErrNotFound                 = errors.New("not found")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInvalidAggregationInput  = errors.New("invalid aggregation input")
	ErrSideEffectPartialFailure = errors.New("side effect partially failed")
)

// Not found errors. Invisible entities report these too.
var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrTeamNotFound         = fmt.Errorf("team %w", ErrNotFound)
	ErrProjectNotFound      = fmt.Errorf("project %w", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("task %w", ErrNotFound)
	ErrSubtaskNotFound      = fmt.Errorf("subtask %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Validation errors
var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidID          = errors.New("invalid id")
	ErrTaskNestingTooDeep = errors.New("subtasks of subtasks are not supported")
	ErrProjectTeamsEmpty  = errors.New("project must belong to at least one team")
)

// Team errors
var (
	ErrAlreadyMember    = errors.New("user is already a team member")
	ErrNotTeamMember    = errors.New("user is not a member of this team")
	ErrCannotRemoveSelf = errors.New("team creator cannot be removed")
)

// Report errors
var (
	ErrArchiveUnavailable = errors.New("report archive is not configured")
)

// SideEffectError reports a failure in the mutation side-effect pipeline after the
// entity mutation was committed. The mutation itself stays durable.
type SideEffectError struct {
	Stage string
	Errs  []error
}

func (e *SideEffectError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("side effects failed at stage %s: %v", e.Stage, e.Errs[0])
	}
	return fmt.Sprintf("side effects failed at stage %s: %d errors, first: %v", e.Stage, len(e.Errs), e.Errs[0])
}

// Is makes errors.Is(err, ErrSideEffectPartialFailure) match.
func (e *SideEffectError) Is(target error) bool {
	return target == ErrSideEffectPartialFailure
}

// Unwrap exposes the underlying stage errors.
func (e *SideEffectError) Unwrap() []error {
	return e.Errs
}
