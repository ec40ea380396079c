package middleware

import (
	"net/http"
	"strings"

	"plume/internal/models"
	"plume/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the user for the session cookie, with its role, and
// refreshes last_seen. Nothing is set for anonymous visitors; handlers get
// Anonymous from CurrentIdentity instead.
func LoadUser(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			if id, ok := userID.(uint); ok {
				if user, err := users.GetByID(id); err == nil {
					c.Set(CheckUserKey, user)
					users.TouchLastSeen(user)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser returns the session user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// CurrentIdentity never returns nil: anonymous visitors get an identity
// whose Can() is always false.
func CurrentIdentity(c *gin.Context) models.Identity {
	if u := CurrentUser(c); u != nil {
		return u
	}
	return models.Anonymous{}
}

// AuthRequired ensures a user is logged in.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ConfirmedRequired sends logged-in but unconfirmed users to /unconfirmed.
// The auth pages themselves stay reachable so the user can confirm, resend
// the email, or log out.
func ConfirmedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user != nil && !user.Confirmed && !isAuthPath(c.Request.URL.Path) {
			c.Redirect(http.StatusFound, "/unconfirmed")
			c.Abort()
			return
		}
		c.Next()
	}
}

func isAuthPath(path string) bool {
	switch {
	case path == "/login", path == "/logout", path == "/register",
		path == "/unconfirmed", path == "/resend_email":
		return true
	case strings.HasPrefix(path, "/confirm/"):
		return true
	case strings.HasPrefix(path, "/static/"):
		return true
	}
	return false
}

// PermissionRequired gates a route on a permission mask. Anonymous users
// fail every mask.
func PermissionRequired(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Can(p) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// AdminRequired is PermissionRequired for the full mask.
func AdminRequired() gin.HandlerFunc {
	return PermissionRequired(models.PermAdminister)
}
