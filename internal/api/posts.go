package api

import (
	"net/http"

	"plume/internal/models"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

type postInput struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// ListPosts returns all posts, newest first, paginated.
func (a *API) ListPosts(c *gin.Context) {
	page := pageParam(c)
	perPage := a.cfg.PostsPerPage

	var total int64
	a.db.Model(&models.Post{}).Count(&total)

	var posts []models.Post
	if err := a.db.Order("created_at DESC").
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

// GetPost returns one post by id.
func (a *API) GetPost(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, postJSON(&post))
}

// CreatePost writes a post as the authenticated user. Requires WritePosts;
// the author is always the server-resolved identity, never client input.
func (a *API) CreatePost(c *gin.Context) {
	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "title and body are required")
		return
	}

	post := models.Post{
		Title:  in.Title,
		UserID: currentUser(c).ID,
	}
	post.SetBody(in.Body)

	if err := a.db.Create(&post).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	utils.GetCache().Purge()

	c.Header("Location", postURL(post.ID))
	c.JSON(http.StatusCreated, postJSON(&post))
}

// UpdatePost edits a post. Allowed for the author and administrators.
func (a *API) UpdatePost(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		notFound(c)
		return
	}

	user := currentUser(c)
	if user == nil || (user.ID != post.UserID && !user.IsAdministrator()) {
		forbidden(c, "Insufficient permissions")
		return
	}

	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "title and body are required")
		return
	}

	post.Title = in.Title
	post.SetBody(in.Body)
	if err := a.db.Save(&post).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	utils.GetCache().Purge()

	c.JSON(http.StatusOK, postJSON(&post))
}
