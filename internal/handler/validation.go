package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/teamlog/teamlog-backend/internal/common"
)

var requestValidator = validator.New()

// bindJSON decodes the body into req and checks its validate tags.
// On failure the 400 response is already written.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := requestValidator.Struct(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}
