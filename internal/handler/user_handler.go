package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/service"
	"github.com/teamlog/teamlog-backend/pkg/ginutil"
)

// UserHandler handles team member requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(&req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, user)
}

// List handles GET /users, optionally narrowed by username or email
func (h *UserHandler) List(c *gin.Context) {
	skip := ginutil.QueryInt(c, "skip", 0)
	limit := ginutil.QueryInt(c, "limit", 100)
	filter := domain.UserFilter{Username: c.Query("username"), Email: c.Query("email")}

	users, err := h.service.ListUsers(filter, skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, users, &common.Meta{Skip: skip, Limit: limit, Count: len(users)})
}

// Get handles GET /users/:id?include_activity=true
func (h *UserHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	res, err := h.service.GetUserResource(id, ginutil.QueryBool(c, "include_activity", false))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, res, nil)
}

// Lookup handles GET /users/lookup?username=|email=
func (h *UserHandler) Lookup(c *gin.Context) {
	user, err := h.service.FindUser(c.Query("username"), c.Query("email"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}
