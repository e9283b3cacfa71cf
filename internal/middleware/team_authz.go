package middleware

import (
	"taskscope/internal/authz"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing team data
const (
	TeamIDKey = "teamID"
	ScopeKey  = "scope"
)

// TeamScope returns a middleware for routes under /teams/:teamId. It resolves the
// caller's scope and rejects teams outside it as not found.
func TeamScope(resolver authz.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.Unauthorized(c, "user not authenticated")
			c.Abort()
			return
		}

		teamIDStr := c.Param("teamId")
		if teamIDStr == "" {
			response.BadRequest(c, "team id is required")
			c.Abort()
			return
		}

		teamID, err := primitive.ObjectIDFromHex(teamIDStr)
		if err != nil {
			response.BadRequest(c, "invalid team id format")
			c.Abort()
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), actor)
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}

		if !scope.HasTeam(teamID) {
			response.NotFound(c, "team not found")
			c.Abort()
			return
		}

		c.Set(TeamIDKey, teamID)
		c.Set(ScopeKey, scope)

		c.Next()
	}
}

// GetTeamID retrieves the team ID from the context.
func GetTeamID(c *gin.Context) (primitive.ObjectID, bool) {
	teamID, exists := c.Get(TeamIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	return teamID.(primitive.ObjectID), true
}

// GetScope retrieves the scope resolved by TeamScope.
func GetScope(c *gin.Context) (*authz.Scope, bool) {
	scope, exists := c.Get(ScopeKey)
	if !exists {
		return nil, false
	}
	return scope.(*authz.Scope), true
}
