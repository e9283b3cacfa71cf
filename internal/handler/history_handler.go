package handler

import (
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the audit trail.
type HistoryHandler struct {
	service service.HistoryServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service service.HistoryServicer) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List godoc
// @Summary      List history records
// @Description  Newest first, limited to entities in the caller's scope
// @Tags         history
// @Produce      json
// @Param        entityType  query     string  false  "task, project or team"
// @Param        entityId    query     string  false  "Entity ID"
// @Param        from        query     string  false  "Created at or after (RFC 3339)"
// @Param        to          query     string  false  "Created at or before (RFC 3339)"
// @Param        limit       query     int     false  "Max records (default: 50, max: 500)"
// @Success      200         {object}  response.Response{data=models.HistoryListResponse}
// @Failure      400         {object}  response.Response
// @Failure      401         {object}  response.Response
// @Security     BearerAuth
// @Router       /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	q := service.HistoryQuery{EntityType: c.Query("entityType")}
	if q.EntityID, ok = queryID(c, "entityId"); !ok {
		return
	}
	if q.From, ok = queryTime(c, "from"); !ok {
		return
	}
	if q.To, ok = queryTime(c, "to"); !ok {
		return
	}
	if q.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), a, q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}
