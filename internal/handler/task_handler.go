package handler

import (
	"net/http"

	"taskscope/internal/models"
	"taskscope/internal/service"
	"taskscope/pkg/response"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles HTTP requests for tasks, subtasks and comments.
type TaskHandler struct {
	service service.TaskServicer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service service.TaskServicer) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTaskRequest  true  "Task details"
// @Success      201   {object}  response.Response{data=models.TaskView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTask(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}

// ListTasks godoc
// @Summary      List visible tasks
// @Tags         tasks
// @Produce      json
// @Param        project     query     string  false  "Project ID"
// @Param        status      query     string  false  "Task status"
// @Param        priority    query     string  false  "Priority"
// @Param        assignedTo  query     string  false  "Assignee user ID"
// @Param        dueFrom     query     string  false  "Due on or after (RFC 3339)"
// @Param        dueTo       query     string  false  "Due on or before (RFC 3339)"
// @Success      200         {object}  response.Response{data=models.TaskListResponse}
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var q service.TaskQuery
	if q.Project, ok = queryID(c, "project"); !ok {
		return
	}
	if q.AssignedTo, ok = queryID(c, "assignedTo"); !ok {
		return
	}
	if q.DueFrom, ok = queryTime(c, "dueFrom"); !ok {
		return
	}
	if q.DueTo, ok = queryTime(c, "dueTo"); !ok {
		return
	}
	q.Status = models.TaskStatus(c.Query("status"))
	q.Priority = c.Query("priority")

	result, err := h.service.ListTasks(c.Request.Context(), a, q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        taskId  path      string  true  "Task ID"
// @Success      200     {object}  response.Response{data=models.TaskView}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Status changes and new assignees notify the task's assignees
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId  path      string                    true  "Task ID"
// @Param        body    body      models.UpdateTaskRequest  true  "Fields to update"
// @Success      200     {object}  response.Response{data=models.TaskView}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateTask(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        taskId  path      string  true  "Task ID"
// @Success      200     {object}  response.Response{data=models.TaskView}
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	result, err := h.service.DeleteTask(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// AddSubtask godoc
// @Summary      Add a subtask
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId  path      string                       true  "Task ID"
// @Param        body    body      models.CreateSubtaskRequest  true  "Subtask"
// @Success      201     {object}  response.Response{data=models.TaskView}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId}/subtasks [post]
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req models.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddSubtask(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}

// ToggleSubtask godoc
// @Summary      Toggle a subtask's completion
// @Tags         tasks
// @Produce      json
// @Param        taskId     path      string  true  "Task ID"
// @Param        subtaskId  path      string  true  "Subtask ID"
// @Success      200        {object}  response.Response{data=models.TaskView}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId}/subtasks/{subtaskId}/toggle [put]
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	subtaskID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}

	result, err := h.service.ToggleSubtask(c.Request.Context(), a, id, subtaskID)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusOK, result)
}

// AddComment godoc
// @Summary      Comment on a task
// @Description  Notifies the task's assignees and any mentioned users
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId  path      string                       true  "Task ID"
// @Param        body    body      models.CreateCommentRequest  true  "Comment"
// @Success      201     {object}  response.Response{data=models.TaskView}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{taskId}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	commit(c, http.StatusCreated, result)
}
