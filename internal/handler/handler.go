// Package handler contains HTTP handlers for the API.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/middleware"
	"taskscope/internal/models"
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actor returns the caller or writes 401.
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return models.Actor{}, false
	}
	return a, true
}

// pathID parses an ObjectID path parameter or writes 400.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryID parses an optional ObjectID query parameter.
func queryID(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name+" format")
		return nil, false
	}
	return &id, true
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name+" format")
		return nil, false
	}
	return &t, true
}

// queryInt parses an optional integer query parameter, zero when absent.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

// commit writes a stored mutation with any side-effect warnings.
func commit[T any](c *gin.Context, status int, m *service.Mutation[T]) {
	response.Committed(c, status, m.Entity, m.Warnings)
}

// teamID reads the team id set by the team scope middleware.
func teamID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.GetTeamID(c)
	if !ok {
		response.BadRequest(c, "team id not found in context")
	}
	return id, ok
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.Forbidden(c, "insufficient permissions")
	case errors.Is(err, apperrors.ErrAlreadyMember):
		response.Conflict(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrInvalidPriority),
		errors.Is(err, apperrors.ErrInvalidID),
		errors.Is(err, apperrors.ErrTaskNestingTooDeep),
		errors.Is(err, apperrors.ErrProjectTeamsEmpty),
		errors.Is(err, apperrors.ErrNotTeamMember),
		errors.Is(err, apperrors.ErrCannotRemoveSelf),
		errors.Is(err, apperrors.ErrInvalidAggregationInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, apperrors.ErrArchiveUnavailable):
		response.Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		response.InternalError(c)
	}
}
