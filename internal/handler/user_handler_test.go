package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/service"
	"taskscope/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUserHandler(t *testing.T) {
	mockService := &mocks.MockUserService{}
	handler := NewUserHandler(mockService)

	assert.NotNil(t, handler)
	assert.Equal(t, mockService, handler.service)
}

func TestUserHandler_GetUser(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	tests := []struct {
		name           string
		userID         string
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful get user",
			userID: userID.Hex(),
			mockSetup: func(m *mocks.MockUserService) {
				m.GetUserFunc = func(ctx context.Context, id string) (*models.User, error) {
					return &models.User{
						ID:        userID,
						Email:     "test@example.com",
						Name:      "Test User",
						Role:      models.RoleMember,
						CreatedAt: now,
						UpdatedAt: now,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decode(t, w)
				assert.Equal(t, true, resp["success"])
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, "test@example.com", data["email"])
				assert.NotContains(t, data, "password")
			},
		},
		{
			name:   "user not found",
			userID: primitive.NewObjectID().Hex(),
			mockSetup: func(m *mocks.MockUserService) {
				m.GetUserFunc = func(ctx context.Context, id string) (*models.User, error) {
					return nil, apperrors.ErrUserNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "internal server error",
			userID: userID.Hex(),
			mockSetup: func(m *mocks.MockUserService) {
				m.GetUserFunc = func(ctx context.Context, id string) (*models.User, error) {
					return nil, errors.New("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			handler := NewUserHandler(mockService)

			router := gin.New()
			router.GET("/users/:id", handler.GetUser)

			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.userID, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestUserHandler_Me(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("returns the caller", func(t *testing.T) {
		var requested string
		mockService := &mocks.MockUserService{
			GetUserFunc: func(ctx context.Context, id string) (*models.User, error) {
				requested = id
				return &models.User{ID: userID, Name: "Me"}, nil
			},
		}

		router := gin.New()
		router.GET("/users/me", setActor(userID, models.RoleMember), NewUserHandler(mockService).Me)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.Hex(), requested)
	})

	t.Run("requires authentication", func(t *testing.T) {
		router := gin.New()
		router.GET("/users/me", NewUserHandler(&mocks.MockUserService{}).Me)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_GetAllUsers(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "successful get all users",
			mockSetup: func(m *mocks.MockUserService) {
				m.GetAllUsersFunc = func(ctx context.Context) ([]models.User, error) {
					return []models.User{
						{ID: primitive.NewObjectID(), Email: "user1@example.com", Name: "User 1", CreatedAt: now},
						{ID: primitive.NewObjectID(), Email: "user2@example.com", Name: "User 2", CreatedAt: now},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "empty user list",
			mockSetup: func(m *mocks.MockUserService) {
				m.GetAllUsersFunc = func(ctx context.Context) ([]models.User, error) {
					return []models.User{}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name: "internal server error",
			mockSetup: func(m *mocks.MockUserService) {
				m.GetAllUsersFunc = func(ctx context.Context) ([]models.User, error) {
					return nil, errors.New("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			router := gin.New()
			router.GET("/users", NewUserHandler(mockService).GetAllUsers)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				data := decode(t, w)["data"].([]interface{})
				assert.Len(t, data, tt.expectedLen)
			}
		})
	}
}

func TestUserHandler_UpdateRole(t *testing.T) {
	adminID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()

	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
	}{
		{
			name: "admin promotes a member",
			body: models.UpdateRoleRequest{Role: models.RoleAdmin},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor models.Actor, id string, role string) (*service.Mutation[*models.User], error) {
					assert.Equal(t, adminID, actor.ID)
					assert.Equal(t, targetID.Hex(), id)
					return &service.Mutation[*models.User]{Entity: &models.User{ID: targetID, Role: role}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown role rejected by binding",
			body:           map[string]string{"role": "owner"},
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient privilege",
			body: models.UpdateRoleRequest{Role: models.RoleSuperAdmin},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor models.Actor, id string, role string) (*service.Mutation[*models.User], error) {
					return nil, apperrors.ErrUnauthorized
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "target missing",
			body: models.UpdateRoleRequest{Role: models.RoleAdmin},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor models.Actor, id string, role string) (*service.Mutation[*models.User], error) {
					return nil, apperrors.ErrUserNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			router := gin.New()
			router.PUT("/users/:id/role", setActor(adminID, models.RoleAdmin), NewUserHandler(mockService).UpdateRole)

			req := httptest.NewRequest(http.MethodPut, "/users/"+targetID.Hex()+"/role", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
