package handlers

import (
	"fmt"
	"net/http"

	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/store"
	"plume/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users   *store.UserStore
	follows *store.FollowStore
	cfg     *config.Config
}

func NewUserHandler(users *store.UserStore, follows *store.FollowStore, cfg *config.Config) *UserHandler {
	return &UserHandler{users: users, follows: follows, cfg: cfg}
}

// Profile shows a user's page with their posts, newest first.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	var posts []models.Post
	db.DB.Preload("User").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&posts)
	fillCommentCounts(posts)

	viewer := middleware.CurrentUser(c)
	isFollowing := false
	if viewer != nil {
		isFollowing = h.follows.IsFollowing(viewer, user)
	}

	var followerCount, followingCount int64
	db.DB.Model(&models.Follow{}).Where("followed_id = ?", user.ID).Count(&followerCount)
	db.DB.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&followingCount)

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"User":           user,
		"Posts":          posts,
		"IsFollowing":    isFollowing,
		"FollowerCount":  followerCount,
		"FollowingCount": followingCount,
	})
}

// Follow adds an edge from the viewer to :username. Gated on PermFollow.
func (h *UserHandler) Follow(c *gin.Context) {
	target, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.follows.Follow(middleware.CurrentUser(c), target); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not follow this user")
		return
	}
	c.Redirect(http.StatusFound, "/user/"+target.Username)
}

// Unfollow removes the edge. Removing a missing edge, or the self edge, is
// a silent no-op.
func (h *UserHandler) Unfollow(c *gin.Context) {
	target, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.follows.Unfollow(middleware.CurrentUser(c), target); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not unfollow this user")
		return
	}
	c.Redirect(http.StatusFound, "/user/"+target.Username)
}

// Followers lists who follows :username.
func (h *UserHandler) Followers(c *gin.Context) {
	h.listFollows(c, "Followers", h.follows.Followers)
}

// FollowedBy lists who :username follows.
func (h *UserHandler) FollowedBy(c *gin.Context) {
	h.listFollows(c, "Following", h.follows.Following)
}

func (h *UserHandler) listFollows(c *gin.Context, title string,
	list func(*models.User, int, int) ([]store.FollowEntry, int64, error)) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	entries, total, err := list(user, page, h.cfg.PostsPerPage)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the list")
		return
	}

	Render(c, http.StatusOK, "user/follows.html", gin.H{
		"Title":   title,
		"User":    user,
		"Entries": entries,
		"Page":    page,
		"Total":   total,
	})
}

// ShowEditProfile renders the self-service profile form.
func (h *UserHandler) ShowEditProfile(c *gin.Context) {
	Render(c, http.StatusOK, "user/edit_profile.html", gin.H{"User": middleware.CurrentUser(c)})
}

// EditProfile lets a user change their display name, location and bio.
func (h *UserHandler) EditProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	user.Name = c.PostForm("name")
	user.Location = c.PostForm("location")
	user.AboutMe = c.PostForm("about_me")

	if err := db.DB.Model(user).Updates(map[string]interface{}{
		"name":     user.Name,
		"location": user.Location,
		"about_me": user.AboutMe,
	}).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your profile")
		return
	}
	c.Redirect(http.StatusFound, "/user/"+user.Username)
}

// ShowEditProfileAdmin renders the administrator profile form for any user.
func (h *UserHandler) ShowEditProfileAdmin(c *gin.Context) {
	user, err := h.users.GetByID(uint(utils.StringToInt(c.Param("id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}
	roles, _ := h.users.Roles()
	Render(c, http.StatusOK, "user/edit_profile.html", gin.H{"User": user, "Roles": roles, "Admin": true})
}

// EditProfileAdmin applies the administrator edit: email, username, role
// and the confirmed flag on top of the profile fields.
func (h *UserHandler) EditProfileAdmin(c *gin.Context) {
	user, err := h.users.GetByID(uint(utils.StringToInt(c.Param("id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	upd := store.AdminProfileUpdate{
		Email:     c.PostForm("email"),
		Username:  c.PostForm("username"),
		Confirmed: c.PostForm("confirmed") != "",
		RoleID:    uint(utils.StringToInt(c.PostForm("role_id"))),
		Name:      c.PostForm("name"),
		Location:  c.PostForm("location"),
		AboutMe:   c.PostForm("about_me"),
	}
	if err := h.users.UpdateProfileAdmin(user, upd); err != nil {
		RenderError(c, http.StatusInternalServerError, fmt.Sprintf("Could not update this user: %v", err))
		return
	}
	c.Redirect(http.StatusFound, "/user/"+upd.Username)
}
