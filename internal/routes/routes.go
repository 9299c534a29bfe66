package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/handler"
)

// Handlers bundles every API handler mounted under /api/v1
type Handlers struct {
	Messages *handler.MessageHandler
	Users    *handler.UserHandler
	Projects *handler.ProjectHandler
	Tasks    *handler.TaskHandler
}

// Setup configures all API routes. writeLimit wraps every state-changing endpoint.
func Setup(router *gin.Engine, h Handlers, writeLimit gin.HandlerFunc) {
	api := router.Group("/api/v1")

	messages := api.Group("/messages")
	{
		messages.GET("", h.Messages.List)
		messages.POST("", writeLimit, h.Messages.Create)
		messages.GET("/recent", h.Messages.Recent)
		messages.GET("/:id", h.Messages.Get)
		messages.PATCH("/:id", writeLimit, h.Messages.Update)
		messages.DELETE("/:id", writeLimit, h.Messages.Delete)
		messages.POST("/:id/read", writeLimit, h.Messages.MarkRead)
		messages.GET("/:id/thread", h.Messages.Thread)
	}

	direct := api.Group("/direct-messages")
	{
		direct.GET("", h.Messages.ListDirect)
		direct.POST("", writeLimit, h.Messages.CreateDirect)
		direct.POST("/read", writeLimit, h.Messages.MarkConversationRead)
	}

	users := api.Group("/users")
	{
		users.GET("", h.Users.List)
		users.POST("", writeLimit, h.Users.Create)
		users.GET("/lookup", h.Users.Lookup)
		users.GET("/:id", h.Users.Get)
		users.GET("/:id/unread", h.Messages.Unread)
		users.GET("/:id/unread/count", h.Messages.UnreadCount)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", h.Projects.List)
		projects.POST("", writeLimit, h.Projects.Create)
		projects.GET("/:id", h.Projects.Get)
		projects.PATCH("/:id", writeLimit, h.Projects.Update)
		projects.DELETE("/:id", writeLimit, h.Projects.Delete)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.Tasks.List)
		tasks.POST("", writeLimit, h.Tasks.Create)
		tasks.GET("/:id", h.Tasks.Get)
		tasks.PATCH("/:id", writeLimit, h.Tasks.Update)
		tasks.DELETE("/:id", writeLimit, h.Tasks.Delete)
	}
}
