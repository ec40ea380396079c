package api

import (
	"net/http"

	"plume/internal/models"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

type commentInput struct {
	Body string `json:"body" binding:"required"`
}

// ListComments returns every comment, oldest first, paginated.
func (a *API) ListComments(c *gin.Context) {
	page := pageParam(c)
	perPage := a.cfg.PostsPerPage

	var total int64
	a.db.Model(&models.Comment{}).Count(&total)

	var comments []models.Comment
	if err := a.db.Order("created_at").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	items := make([]gin.H, 0, len(comments))
	for i := range comments {
		items = append(items, commentJSON(&comments[i]))
	}
	prev, next := pageLinks(c, page, perPage, total)
	c.JSON(http.StatusOK, gin.H{
		"comments": items,
		"prev":     prev,
		"next":     next,
		"count":    total,
	})
}

// GetComment returns one comment by id.
func (a *API) GetComment(c *gin.Context) {
	var comment models.Comment
	if err := a.db.First(&comment, utils.StringToInt(c.Param("id"))).Error; err != nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, commentJSON(&comment))
}

// ListPostComments returns the comments of one post, newest first.
func (a *API) ListPostComments(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		notFound(c)
		return
	}

	page := pageParam(c)
	perPage := a.cfg.PostsPerPage

	var total int64
	a.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&total)

	var comments []models.Comment
	if err := a.db.Where("post_id = ?", post.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	items := make([]gin.H, 0, len(comments))
	for i := range comments {
		items = append(items, commentJSON(&comments[i]))
	}
	prev, next := pageLinks(c, page, perPage, total)
	c.JSON(http.StatusOK, gin.H{
		"comments": items,
		"prev":     prev,
		"next":     next,
		"count":    total,
	})
}

// CreateComment posts a comment on a post. Requires the Comment permission;
// the author is the server-resolved identity.
func (a *API) CreateComment(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		notFound(c)
		return
	}

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Body == "" {
		badRequest(c, "body is required")
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: currentUser(c).ID,
	}
	comment.SetBody(in.Body)

	if err := a.db.Create(&comment).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.Header("Location", commentURL(comment.ID))
	c.JSON(http.StatusCreated, commentJSON(&comment))
}
