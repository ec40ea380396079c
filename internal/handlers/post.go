package handlers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/store"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	follows *store.FollowStore
	cfg     *config.Config
}

func NewPostHandler(follows *store.FollowStore, cfg *config.Config) *PostHandler {
	return &PostHandler{follows: follows, cfg: cfg}
}

// fillCommentCounts batch-fills CommentCount for a page of posts.
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// Index lists posts: everyone's, or only followed authors when the
// show_followed cookie is set and the visitor is logged in.
func (h *PostHandler) Index(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := h.cfg.PostsPerPage

	user := middleware.CurrentUser(c)
	showFollowed := false
	if user != nil {
		if v, err := c.Cookie("show_followed"); err == nil && v != "" {
			showFollowed = true
		}
	}

	var (
		posts []models.Post
		total int64
	)
	if showFollowed {
		var err error
		posts, total, err = h.follows.FeedFor(user, page, perPage)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Could not load your feed")
			return
		}
		fillCommentCounts(posts)
	} else {
		// The public all-posts listing is the hot path; cache it briefly
		// for anonymous visitors.
		cacheKey := fmt.Sprintf("post:index:page:%d", page)
		if user == nil {
			if cached := utils.GetCache().Get(cacheKey); cached != nil {
				if data, ok := cached.(gin.H); ok {
					Render(c, http.StatusOK, "post/index.html", data)
					return
				}
			}
		}

		db.DB.Model(&models.Post{}).Count(&total)
		db.DB.Preload("User").
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&posts)
		fillCommentCounts(posts)

		if user == nil {
			utils.GetCache().Set(cacheKey, indexData(posts, page, perPage, total, false), time.Minute)
		}
	}

	Render(c, http.StatusOK, "post/index.html", indexData(posts, page, perPage, total, showFollowed))
}

func indexData(posts []models.Post, page, perPage int, total int64, showFollowed bool) gin.H {
	return gin.H{
		"Posts":        posts,
		"Page":         page,
		"TotalPages":   int(math.Ceil(float64(total) / float64(perPage))),
		"ShowFollowed": showFollowed,
	}
}

// ShowAll clears the followed-only cookie.
func (h *PostHandler) ShowAll(c *gin.Context) {
	c.SetCookie("show_followed", "", 30*24*60*60, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// ShowFollowed sets the followed-only cookie.
func (h *PostHandler) ShowFollowed(c *gin.Context) {
	c.SetCookie("show_followed", "1", 30*24*60*60, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Detail renders one post with its comments, oldest first.
func (h *PostHandler) Detail(c *gin.Context) {
	var post models.Post
	if err := db.DB.Preload("User").First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	perPage := h.cfg.PostsPerPage

	var commentCount int64
	db.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)

	// page=-1 jumps to the last comment page, used after posting a comment.
	if page == -1 {
		page = int(commentCount-1)/perPage + 1
	}
	if page < 1 {
		page = 1
	}

	var comments []models.Comment
	db.DB.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments)

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Post":       post,
		"Comments":   comments,
		"Page":       page,
		"TotalPages": int(math.Ceil(float64(commentCount) / float64(perPage))),
		"CanComment": middleware.CurrentIdentity(c).Can(models.PermComment),
	})
}

// CreateComment handles the comment form on the detail page.
func (h *PostHandler) CreateComment(c *gin.Context) {
	var post models.Post
	if err := db.DB.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	body := c.PostForm("body")
	if body == "" {
		c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: middleware.CurrentUser(c).ID,
	}
	comment.SetBody(body)
	if err := db.DB.Create(&comment).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d?page=-1", post.ID))
}

func (h *PostHandler) ShowWrite(c *gin.Context) {
	Render(c, http.StatusOK, "post/write.html", nil)
}

// Write creates a post. Route is gated on PermWritePosts.
func (h *PostHandler) Write(c *gin.Context) {
	title := c.PostForm("title")
	body := c.PostForm("body")
	if title == "" || body == "" {
		Render(c, http.StatusBadRequest, "post/write.html", gin.H{"Error": "Title and body are required"})
		return
	}

	post := models.Post{
		Title:  title,
		UserID: middleware.CurrentUser(c).ID,
	}
	post.SetBody(body)
	if err := db.DB.Create(&post).Error; err != nil {
		Render(c, http.StatusInternalServerError, "post/write.html", gin.H{"Error": "Could not save your post"})
		return
	}
	utils.GetCache().Purge()

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.editablePost(c)
	if !ok {
		return
	}
	Render(c, http.StatusOK, "post/edit.html", gin.H{"Post": post})
}

// Edit updates a post; allowed for the author and administrators.
func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.editablePost(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	body := c.PostForm("body")
	if title == "" || body == "" {
		Render(c, http.StatusBadRequest, "post/edit.html", gin.H{"Post": post, "Error": "Title and body are required"})
		return
	}

	post.Title = title
	post.SetBody(body)
	if err := db.DB.Save(post).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your changes")
		return
	}
	utils.GetCache().Purge()

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

func (h *PostHandler) editablePost(c *gin.Context) (*models.Post, bool) {
	var post models.Post
	if err := db.DB.First(&post, utils.StringToInt(c.Param("id"))).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}

	user := middleware.CurrentUser(c)
	if user == nil || (user.ID != post.UserID && !user.IsAdministrator()) {
		RenderError(c, http.StatusForbidden, "You cannot edit this post")
		return nil, false
	}
	return &post, true
}
