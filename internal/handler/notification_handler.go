package handler

import (
	"log"
	"net/http"

	"taskscope/internal/cache"
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the caller's notifications and the live push stream.
type NotificationHandler struct {
	service  service.NotificationServicer
	listener cache.Listener
}

// NewNotificationHandler creates a new NotificationHandler. listener may be nil,
// in which case the stream endpoint is unavailable.
func NewNotificationHandler(service service.NotificationServicer, listener cache.Listener) *NotificationHandler {
	return &NotificationHandler{service: service, listener: listener}
}

// List godoc
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        unread  query     bool  false  "Only unread"
// @Param        page    query     int   false  "Page number (default: 1)"
// @Param        limit   query     int   false  "Items per page (default: 20, max: 100)"
// @Success      200     {object}  response.Response{data=models.NotificationListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), a, c.Query("unread") == "true", page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "notification marked as read"})
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id   path  string  true  "Notification ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// Stream godoc
// @Summary      Stream push events
// @Description  Server-sent events carrying the caller's new notifications
// @Tags         notifications
// @Produce      text/event-stream
// @Success      200
// @Failure      503  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if h.listener == nil {
		response.Error(c, http.StatusServiceUnavailable, "push stream is not configured")
		return
	}

	ctx := c.Request.Context()
	events, err := h.listener.Listen(ctx, a.ID.Hex())
	if err != nil {
		log.Printf("Failed to open push stream for %s: %v", a.ID.Hex(), err)
		response.InternalError(c)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			c.SSEvent(event.Type, event)
			c.Writer.Flush()
		}
	}
}
