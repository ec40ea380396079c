package api

import (
	"fmt"

	"plume/internal/models"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

func postURL(id uint) string    { return fmt.Sprintf("/api/v1/posts/%d", id) }
func commentURL(id uint) string { return fmt.Sprintf("/api/v1/comments/%d", id) }
func userURL(id uint) string    { return fmt.Sprintf("/api/v1/users/%d", id) }

func postJSON(p *models.Post) gin.H {
	return gin.H{
		"url":           postURL(p.ID),
		"title":         p.Title,
		"body":          p.Body,
		"body_html":     p.BodyHTML,
		"timestamp":     p.CreatedAt,
		"author_url":    userURL(p.UserID),
		"comments_url":  postURL(p.ID) + "/comments",
		"comment_count": p.CommentCount,
	}
}

func commentJSON(cm *models.Comment) gin.H {
	return gin.H{
		"url":        commentURL(cm.ID),
		"post_url":   postURL(cm.PostID),
		"body":       cm.Body,
		"body_html":  cm.BodyHTML,
		"timestamp":  cm.CreatedAt,
		"author_url": userURL(cm.UserID),
		"disabled":   cm.Disabled,
	}
}

func userJSON(u *models.User, postCount int64) gin.H {
	return gin.H{
		"url":          userURL(u.ID),
		"username":     u.Username,
		"member_since": u.MemberSince,
		"last_seen":    u.LastSeen,
		"post_count":   postCount,
		"posts_url":    userURL(u.ID) + "/posts",
		"timeline_url": userURL(u.ID) + "/timeline",
	}
}

// pageParam reads ?page=N, defaulting to 1. Out-of-range pages return empty
// lists rather than errors.
func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// pageLinks builds prev/next URLs for the current path, nil when absent.
func pageLinks(c *gin.Context, page, perPage int, total int64) (prev, next interface{}) {
	path := c.Request.URL.Path
	if page > 1 {
		prev = fmt.Sprintf("%s?page=%d", path, page-1)
	}
	if int64(page*perPage) < total {
		next = fmt.Sprintf("%s?page=%d", path, page+1)
	}
	return prev, next
}
