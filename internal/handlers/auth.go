package handlers

import (
	"errors"
	"net/http"
	"strings"

	"plume/internal/middleware"
	"plume/internal/services"
	"plume/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users       *store.UserStore
	mailService *services.MailService
}

func NewAuthHandler(users *store.UserStore, mail *services.MailService) *AuthHandler {
	return &AuthHandler{
		users:       users,
		mailService: mail,
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if username == "" || !strings.Contains(email, "@") {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Username and a valid email are required"})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Password must be at least 6 characters"})
		return
	}

	user, err := h.users.Register(username, email, password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			Render(c, http.StatusConflict, "auth/register.html", gin.H{"Error": "Email already registered"})
			return
		}
		Render(c, http.StatusInternalServerError, "auth/register.html", gin.H{"Error": "Registration failed, please try again"})
		return
	}

	// The confirmation mail goes out in the background; a slow or failing
	// SMTP server never delays or rolls back the registration.
	if tok, err := h.users.IssueConfirmation(user); err == nil {
		h.mailService.SendConfirmationEmail(user.Email, user.Username, tok)
	}

	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "A confirmation email has been sent to your address. Please log in."})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	user, ok := h.users.Authenticate(email, password)
	if !ok {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Incorrect email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	if !user.Confirmed {
		c.Redirect(http.StatusFound, "/unconfirmed")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// Confirm flips the account to confirmed when the emailed token checks out.
// Requires a logged-in session: the token alone identifies the account but
// does not authenticate the browser.
func (h *AuthHandler) Confirm(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if user.Confirmed {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if h.users.Confirm(user, c.Param("token")) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusBadRequest, "auth/unconfirmed.html", gin.H{"Error": "The confirmation link is invalid or has expired"})
}

func (h *AuthHandler) Unconfirmed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || user.Confirmed {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/unconfirmed.html", nil)
}

func (h *AuthHandler) ResendEmail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if tok, err := h.users.IssueConfirmation(user); err == nil {
		h.mailService.SendConfirmationEmail(user.Email, user.Username, tok)
	}
	Render(c, http.StatusOK, "auth/unconfirmed.html", gin.H{"Success": "A new confirmation email has been sent"})
}
