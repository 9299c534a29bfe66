package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/service"
	"github.com/teamlog/teamlog-backend/pkg/ginutil"
)

// TaskHandler handles task requests
type TaskHandler struct {
	service service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid task ID", err)
		return 0, false
	}
	return id, true
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req domain.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.service.CreateTask(&req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, task)
}

// List handles GET /tasks?project_id=&status=
func (h *TaskHandler) List(c *gin.Context) {
	filter := domain.TaskFilter{ProjectID: ginutil.QueryUintPtr(c, "project_id")}
	if raw := c.Query("status"); raw != "" {
		status := domain.TaskStatus(raw)
		filter.Status = &status
	}
	skip := ginutil.QueryInt(c, "skip", 0)
	limit := ginutil.QueryInt(c, "limit", 100)

	tasks, err := h.service.ListTasks(filter, skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, tasks, &common.Meta{Skip: skip, Limit: limit, Count: len(tasks)})
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.service.GetTask(id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, task, nil)
}

// Update handles PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req domain.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.service.UpdateTask(id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, task, nil)
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTask(id); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
