package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskscope/internal/aggregate"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/report"
	"taskscope/internal/service"
	"taskscope/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newReportRouter(userID primitive.ObjectID, teamID primitive.ObjectID, m *mocks.MockReportService) *gin.Engine {
	h := NewReportHandler(m)
	router := gin.New()
	router.Use(setActor(userID, models.RoleMember))
	router.GET("/statistics/dashboard", h.Dashboard)
	router.GET("/statistics/projects/:projectId", h.ProjectReport)
	router.GET("/teams/:teamId/statistics", setTeamID(teamID), h.TeamReport)
	router.GET("/reports/tasks", h.ExportTasks)
	router.GET("/reports/projects", h.ExportProjects)
	return router
}

func TestReportHandler_Dashboard(t *testing.T) {
	userID := primitive.NewObjectID()
	m := &mocks.MockReportService{
		DashboardFunc: func(ctx context.Context, actor models.Actor) (*aggregate.Result, error) {
			return &aggregate.Result{
				Summary:  aggregate.Summary{Total: 4, Completed: 1, CompletionRate: 25},
				ByStatus: []aggregate.StatusRow{{Status: models.StatusCompleted, Count: 1}},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	newReportRouter(userID, primitive.NewObjectID(), m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statistics/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, float64(4), summary["total"])
	assert.Equal(t, float64(25), summary["completionRate"])
}

func TestReportHandler_ProjectReport(t *testing.T) {
	userID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	tests := []struct {
		name           string
		path           string
		err            error
		expectedStatus int
	}{
		{name: "ok", path: projectID.Hex(), expectedStatus: http.StatusOK},
		{name: "no report capability", path: projectID.Hex(), err: apperrors.ErrProjectNotFound, expectedStatus: http.StatusNotFound},
		{name: "bad id", path: "x", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockReportService{
				ProjectReportFunc: func(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*aggregate.Result, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &aggregate.Result{}, nil
				},
			}

			w := httptest.NewRecorder()
			newReportRouter(userID, primitive.NewObjectID(), m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statistics/projects/"+tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReportHandler_TeamReport(t *testing.T) {
	userID := primitive.NewObjectID()
	teamID := primitive.NewObjectID()

	var got primitive.ObjectID
	m := &mocks.MockReportService{
		TeamReportFunc: func(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*aggregate.Result, error) {
			got = id
			return &aggregate.Result{ByMember: []aggregate.MemberRow{}}, nil
		},
	}

	w := httptest.NewRecorder()
	newReportRouter(userID, teamID, m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/"+teamID.Hex()+"/statistics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, teamID, got)
}

func TestReportHandler_Exports(t *testing.T) {
	userID := primitive.NewObjectID()
	generated := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("tasks inline", func(t *testing.T) {
		var archived bool
		m := &mocks.MockReportService{
			ExportTasksFunc: func(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error) {
				archived = archive
				return &service.Export{Report: &report.Report{
					GeneratedAt: generated,
					Sheets:      []report.Sheet{{Name: report.SheetSummary, Columns: []string{"Metric", "Value"}, Rows: [][]interface{}{{"Total", 3}}}},
				}}, nil
			},
		}

		w := httptest.NewRecorder()
		newReportRouter(userID, primitive.NewObjectID(), m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/tasks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, archived)
		data := decode(t, w)["data"].(map[string]interface{})
		assert.NotContains(t, data, "url")
		sheets := data["report"].(map[string]interface{})["sheets"].([]interface{})
		assert.Len(t, sheets, 1)
	})

	t.Run("projects archived", func(t *testing.T) {
		m := &mocks.MockReportService{
			ExportProjectsFunc: func(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error) {
				assert.True(t, archive)
				return &service.Export{Report: &report.Report{GeneratedAt: generated}, URL: "https://example.test/r.json"}, nil
			},
		}

		w := httptest.NewRecorder()
		newReportRouter(userID, primitive.NewObjectID(), m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/projects?archive=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://example.test/r.json", decode(t, w)["data"].(map[string]interface{})["url"])
	})

	t.Run("archive not configured", func(t *testing.T) {
		m := &mocks.MockReportService{
			ExportTasksFunc: func(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error) {
				return nil, apperrors.ErrArchiveUnavailable
			},
		}

		w := httptest.NewRecorder()
		newReportRouter(userID, primitive.NewObjectID(), m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/tasks?archive=true", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
