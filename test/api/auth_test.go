//go:build api

package api

import (
	"net/http"
	"testing"
	"time"

	"taskscope/internal/models"
	"taskscope/pkg/auth"
	"taskscope/test/api/testserver"
	"taskscope/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestBearerAuth tests token handling in front of every /api/v1 route.
func TestBearerAuth(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	user := authHelper.Member(t, "Token User")

	t.Run("success - valid token reaches the handler", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/me", user.Token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := testutil.ParseAPIResponse(t, w)
		assert.Equal(t, user.ID.Hex(), resp.Data["id"])
	})

	t.Run("error - missing token", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/me", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("error - token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTManager("another-secret", time.Minute)
		token, err := other.GenerateToken(user.ID.Hex(), models.RoleSuperAdmin)
		require.NoError(t, err)

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks", token, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("error - expired token", func(t *testing.T) {
		expired := auth.NewJWTManager(testserver.TestAccessTokenSecret, -time.Minute)
		token, err := expired.GenerateToken(user.ID.Hex(), models.RoleMember)
		require.NoError(t, err)

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks", token, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, testutil.ParseAPIResponse(t, w).Error, "expired")
	})

	t.Run("unknown role acts as member", func(t *testing.T) {
		token, err := testServer.JWTManager.GenerateToken(user.ID.Hex(), "owner")
		require.NoError(t, err)

		// Members cannot change roles; an unknown role must not grant more
		target := authHelper.Member(t, "Target")
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/users/"+target.ID.Hex()+"/role", token,
			models.UpdateRoleRequest{Role: models.RoleAdmin})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("error - subject is not an object id", func(t *testing.T) {
		token, err := testServer.JWTManager.GenerateToken("not-an-id", models.RoleSuperAdmin)
		require.NoError(t, err)

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams/"+primitive.NewObjectID().Hex(), token, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
