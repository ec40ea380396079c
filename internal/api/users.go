package api

import (
	"net/http"

	"plume/internal/models"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetUser returns a user's public profile.
func (a *API) GetUser(c *gin.Context) {
	user, err := a.users.GetByID(uint(utils.StringToInt(c.Param("id"))))
	if err != nil {
		notFound(c)
		return
	}

	var postCount int64
	a.db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postCount)

	c.JSON(http.StatusOK, userJSON(user, postCount))
}

// ListUserPosts returns the posts a user authored, newest first.
func (a *API) ListUserPosts(c *gin.Context) {
	user, err := a.users.GetByID(uint(utils.StringToInt(c.Param("id"))))
	if err != nil {
		notFound(c)
		return
	}

	page := pageParam(c)
	perPage := a.cfg.PostsPerPage

	var total int64
	a.db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&total)

	var posts []models.Post
	if err := a.db.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		items = append(items, postJSON(&posts[i]))
	}
	prev, next := pageLinks(c, page, perPage, total)
	c.JSON(http.StatusOK, gin.H{
		"posts": items,
		"prev":  prev,
		"next":  next,
		"count": total,
	})
}

// ListUserTimeline returns the user's followed-posts feed: posts by anyone
// they follow, which includes themselves through the self edge.
func (a *API) ListUserTimeline(c *gin.Context) {
	user, err := a.users.GetByID(uint(utils.StringToInt(c.Param("id"))))
	if err != nil {
		notFound(c)
		return
	}

	page := pageParam(c)
	perPage := a.cfg.PostsPerPage

	posts, total, err := a.follows.FeedFor(user, page, perPage)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		items = append(items, postJSON(&posts[i]))
	}
	prev, next := pageLinks(c, page, perPage, total)
	c.JSON(http.StatusOK, gin.H{
		"posts": items,
		"prev":  prev,
		"next":  next,
		"count": total,
	})
}
