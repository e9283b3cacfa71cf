package handler

import (
	"net/http"

	"taskscope/internal/models"
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles HTTP requests for teams and their members.
type TeamHandler struct {
	service service.TeamServicer
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(service service.TeamServicer) *TeamHandler {
	return &TeamHandler{service: service}
}

// CreateTeam godoc
// @Summary      Create a new team
// @Description  Create a new team. The authenticated user becomes its first admin.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTeamRequest  true  "Team details"
// @Success      201   {object}  response.Response{data=models.Team}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTeam(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}

// ListTeams godoc
// @Summary      List visible teams
// @Description  Teams the caller belongs to; every team for a superadmin
// @Tags         teams
// @Produce      json
// @Success      200    {object}  response.Response{data=models.TeamListResponse}
// @Failure      401    {object}  response.Response
// @Failure      500    {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.service.ListTeams(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTeam godoc
// @Summary      Get team details
// @Tags         teams
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=models.Team}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, team)
}

// UpdateTeam godoc
// @Summary      Update team
// @Description  Update team details. Requires team admin or a global admin role.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId  path      string                    true  "Team ID"
// @Param        body    body      models.UpdateTeamRequest  true  "Team update details"
// @Success      200     {object}  response.Response{data=models.Team}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateTeam(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// DeleteTeam godoc
// @Summary      Delete team
// @Tags         teams
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=models.Team}
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}

	result, err := h.service.DeleteTeam(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// AddMember godoc
// @Summary      Add team member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        teamId  path      string                   true  "Team ID"
// @Param        body    body      models.AddMemberRequest  true  "Member to add"
// @Success      201     {object}  response.Response{data=models.Team}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddMember(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}

// RemoveMember godoc
// @Summary      Remove team member
// @Description  Team admins may remove members; any member may remove themselves
// @Tags         members
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=models.Team}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := teamID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	result, err := h.service.RemoveMember(c.Request.Context(), a, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}
