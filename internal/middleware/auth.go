// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"errors"
	"strings"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/pkg/auth"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing user data
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// Auth returns a middleware that validates JWT tokens and stores the caller's
// identity and global role.
func Auth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, apperrors.ErrTokenExpired.Error())
			} else {
				response.Unauthorized(c, apperrors.ErrInvalidToken.Error())
			}
			c.Abort()
			return
		}
		if !primitive.IsValidObjectID(claims.UserID) {
			response.Unauthorized(c, apperrors.ErrInvalidToken.Error())
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, models.NormalizeRole(claims.Role))

		c.Next()
	}
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not found.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	return userID.(string)
}

// GetRole retrieves the caller's global role, member when unset.
func GetRole(c *gin.Context) string {
	role, exists := c.Get(RoleKey)
	if !exists {
		return models.RoleMember
	}
	return role.(string)
}

// GetActor builds the acting identity from the context.
func GetActor(c *gin.Context) (models.Actor, bool) {
	id, err := primitive.ObjectIDFromHex(GetUserID(c))
	if err != nil {
		return models.Actor{}, false
	}
	return models.NewActor(id, GetRole(c)), true
}
