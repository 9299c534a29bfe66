package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/service"
	"github.com/teamlog/teamlog-backend/pkg/ginutil"
)

// ProjectHandler handles project requests
type ProjectHandler struct {
	service service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func projectID(c *gin.Context) (uint, bool) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid project ID", err)
		return 0, false
	}
	return id, true
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req domain.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.service.CreateProject(&req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, project)
}

// List handles GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	skip := ginutil.QueryInt(c, "skip", 0)
	limit := ginutil.QueryInt(c, "limit", 100)

	projects, err := h.service.ListProjects(skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, projects, &common.Meta{Skip: skip, Limit: limit, Count: len(projects)})
}

// Get handles GET /projects/:id?include_tasks=true
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	res, err := h.service.GetProject(id, ginutil.QueryBool(c, "include_tasks", false))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, res, nil)
}

// Update handles PATCH /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req domain.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.service.UpdateProject(id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, project, nil)
}

// Delete handles DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProject(id); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
