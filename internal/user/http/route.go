package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	group.Use(authMiddleware)
	{
		group.GET("/:id", h.Get)
	}
}
