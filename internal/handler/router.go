package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inkboard/inkboard/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Boards    *BoardHandler
	AI        *AIHandler
	Files     *FileHandler
	WS        *WSHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)

	authGroup.POST("/boards", deps.Boards.Create)
	authGroup.GET("/boards", deps.Boards.List)
	authGroup.GET("/boards/:id", deps.Boards.Get)
	authGroup.PUT("/boards/:id", deps.Boards.Update)
	authGroup.DELETE("/boards/:id", deps.Boards.Delete)
	authGroup.GET("/boards/:id/versions", deps.Boards.Versions)
	authGroup.POST("/boards/:id/export", deps.Boards.Export)
	authGroup.GET("/share/:token", deps.Boards.Share)

	authGroup.POST("/ai/suggestions", deps.AI.Suggest)

	api.GET("/files/:key", deps.Files.Get)
	api.GET("/ws", deps.WS.Serve)
}
