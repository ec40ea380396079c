package api

import (
	"plume/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "api_identity"
	tokenUsedKey = "api_token_used"

	postsPerm    = models.PermWritePosts
	commentsPerm = models.PermComment
)

// Authenticate resolves the HTTP Basic credentials into an identity. Three
// shapes are accepted:
//
//	(no header / empty username)  -> Anonymous, always allowed in
//	username, empty password      -> username is a bearer token
//	username, password            -> username is an email
//
// Token-authenticated requests are flagged so /token can refuse to mint a
// fresh token from an old one. After resolution, any real-but-unconfirmed
// user is rejected outright: confirmation happens on the web side.
func (a *API) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		emailOrToken, password, _ := c.Request.BasicAuth()

		switch {
		case emailOrToken == "":
			c.Set(identityKey, models.Anonymous{})
		case password == "":
			user, ok := a.users.ResolveAPIToken(emailOrToken)
			if !ok {
				unauthorized(c, "Invalid credentials")
				return
			}
			c.Set(identityKey, user)
			c.Set(tokenUsedKey, true)
		default:
			user, ok := a.users.Authenticate(emailOrToken, password)
			if !ok {
				unauthorized(c, "Invalid credentials")
				return
			}
			c.Set(identityKey, user)
		}

		if user := currentUser(c); user != nil {
			if !user.Confirmed {
				forbidden(c, "Unconfirmed account")
				return
			}
			a.users.TouchLastSeen(user)
		}
		c.Next()
	}
}

// currentIdentity never returns nil.
func currentIdentity(c *gin.Context) models.Identity {
	if v, exists := c.Get(identityKey); exists {
		return v.(models.Identity)
	}
	return models.Anonymous{}
}

// currentUser returns the resolved user, or nil for anonymous requests.
func currentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(identityKey); exists {
		if u, isUser := v.(*models.User); isUser {
			return u
		}
	}
	return nil
}

func tokenUsed(c *gin.Context) bool {
	return c.GetBool(tokenUsedKey)
}

// permissionRequired rejects the request with a JSON 403 unless the
// resolved identity carries every bit of p.
func (a *API) permissionRequired(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).Can(p) {
			forbidden(c, "Insufficient permissions")
			return
		}
		c.Next()
	}
}
