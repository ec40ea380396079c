package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetToken mints a bearer token for the authenticated user. Only a primary
// email+password login may call this: anonymous requests and requests that
// themselves authenticated with a token are refused, so tokens cannot chain.
func (a *API) GetToken(c *gin.Context) {
	user := currentUser(c)
	if user == nil || tokenUsed(c) {
		unauthorized(c, "Invalid credentials")
		return
	}

	tok, err := a.users.IssueAPIToken(user, a.cfg.TokenTTL)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	// Expiry is returned so clients can refresh proactively.
	c.JSON(http.StatusOK, gin.H{
		"token":      tok,
		"expiration": int(a.cfg.TokenTTL.Seconds()),
	})
}
