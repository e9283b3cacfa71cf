package handler

import (
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves statistics and report exports.
type ReportHandler struct {
	service service.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service service.ReportServicer) *ReportHandler {
	return &ReportHandler{service: service}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Description  Summary with status, priority and per-project breakdowns
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  response.Response{data=aggregate.Result}
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /statistics/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.service.Dashboard(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// ProjectReport godoc
// @Summary      Project statistics
// @Tags         statistics
// @Produce      json
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=aggregate.Result}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Security     BearerAuth
// @Router       /statistics/projects/{projectId} [get]
func (h *ReportHandler) ProjectReport(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "projectId")
	if !ok {
		return
	}

	result, err := h.service.ProjectReport(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// TeamReport godoc
// @Summary      Team statistics
// @Tags         statistics
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=aggregate.Result}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/statistics [get]
func (h *ReportHandler) TeamReport(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}

	result, err := h.service.TeamReport(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// ExportTasks godoc
// @Summary      Export the task report
// @Description  With archive=true the report is also stored and a download URL returned
// @Tags         reports
// @Produce      json
// @Param        archive  query     bool  false  "Archive to object storage"
// @Success      200      {object}  response.Response{data=service.Export}
// @Failure      503      {object}  response.Response
// @Security     BearerAuth
// @Router       /reports/tasks [get]
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.service.ExportTasks(c.Request.Context(), a, c.Query("archive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// ExportProjects godoc
// @Summary      Export the project report
// @Tags         reports
// @Produce      json
// @Param        archive  query     bool  false  "Archive to object storage"
// @Success      200      {object}  response.Response{data=service.Export}
// @Failure      503      {object}  response.Response
// @Security     BearerAuth
// @Router       /reports/projects [get]
func (h *ReportHandler) ExportProjects(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.service.ExportProjects(c.Request.Context(), a, c.Query("archive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}
