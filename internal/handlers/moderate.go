package handlers

import (
	"math"
	"net/http"

	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/models"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

// ModerateHandler serves the comment-moderation pages. Routes are gated on
// PermModerateComments.
type ModerateHandler struct {
	cfg *config.Config
}

func NewModerateHandler(cfg *config.Config) *ModerateHandler {
	return &ModerateHandler{cfg: cfg}
}

// List shows every comment, newest first, disabled ones included.
func (h *ModerateHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := h.cfg.PostsPerPage

	var total int64
	db.DB.Model(&models.Comment{}).Count(&total)

	var comments []models.Comment
	db.DB.Preload("User").Preload("Post").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments)

	Render(c, http.StatusOK, "moderate/list.html", gin.H{
		"Comments":   comments,
		"Page":       page,
		"TotalPages": int(math.Ceil(float64(total) / float64(perPage))),
	})
}

// Enable re-shows a disabled comment.
func (h *ModerateHandler) Enable(c *gin.Context) {
	h.setDisabled(c, false)
}

// Disable hides a comment without deleting it.
func (h *ModerateHandler) Disable(c *gin.Context) {
	h.setDisabled(c, true)
}

func (h *ModerateHandler) setDisabled(c *gin.Context, disabled bool) {
	var comment models.Comment
	if err := db.DB.First(&comment, utils.StringToInt(c.Param("id"))).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Comment not found")
		return
	}

	if err := db.DB.Model(&comment).Update("disabled", disabled).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not update the comment")
		return
	}
	c.Redirect(http.StatusFound, "/moderate?page="+c.DefaultQuery("page", "1"))
}
