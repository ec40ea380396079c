// Package api is the stateless JSON surface under /api/v1. Every request is
// authenticated from scratch by the gateway middleware; no sessions.
package api

import (
	"plume/internal/config"
	"plume/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type API struct {
	db      *gorm.DB
	users   *store.UserStore
	follows *store.FollowStore
	cfg     *config.Config
}

func New(gdb *gorm.DB, users *store.UserStore, follows *store.FollowStore, cfg *config.Config) *API {
	return &API{db: gdb, users: users, follows: follows, cfg: cfg}
}

// Register mounts the API on rg (normally /api/v1).
func (a *API) Register(rg *gin.RouterGroup) {
	rg.Use(a.Authenticate())

	rg.GET("/token", a.GetToken)

	rg.GET("/posts", a.ListPosts)
	rg.POST("/posts", a.permissionRequired(postsPerm), a.CreatePost)
	rg.GET("/posts/:id", a.GetPost)
	rg.PUT("/posts/:id", a.UpdatePost)
	rg.GET("/posts/:id/comments", a.ListPostComments)
	rg.POST("/posts/:id/comments", a.permissionRequired(commentsPerm), a.CreateComment)

	rg.GET("/comments", a.ListComments)
	rg.GET("/comments/:id", a.GetComment)

	rg.GET("/users/:id", a.GetUser)
	rg.GET("/users/:id/posts", a.ListUserPosts)
	rg.GET("/users/:id/timeline", a.ListUserTimeline)
}
