package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"taskscope/internal/middleware"
	"taskscope/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.RegisterCustomValidators()
}

// setActor is a helper middleware to set the caller in context
func setActor(userID primitive.ObjectID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.Hex())
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

// setTeamID is a helper middleware to set team ID in context
func setTeamID(teamID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TeamIDKey, teamID)
		c.Next()
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
