package handler

import (
	"net/http"

	"taskscope/internal/models"
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service service.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service service.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// CreateProject godoc
// @Summary      Create a project
// @Description  Create a project linked to one or more of the caller's teams
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateProjectRequest  true  "Project details"
// @Success      201   {object}  response.Response{data=models.Project}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProject(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}

// ListProjects godoc
// @Summary      List visible projects
// @Tags         projects
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  response.Response{data=models.ProjectListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.service.ListProjects(c.Request.Context(), a, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetProject godoc
// @Summary      Get project details
// @Tags         projects
// @Produce      json
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=models.Project}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "projectId")
	if !ok {
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, project)
}

// UpdateProject godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId  path      string                       true  "Project ID"
// @Param        body       body      models.UpdateProjectRequest  true  "Fields to update"
// @Success      200        {object}  response.Response{data=models.Project}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /projects/{projectId} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "projectId")
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProject(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// DeleteProject godoc
// @Summary      Delete a project and its tasks
// @Tags         projects
// @Produce      json
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=models.Project}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "projectId")
	if !ok {
		return
	}

	result, err := h.service.DeleteProject(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}
