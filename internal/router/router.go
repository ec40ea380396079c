package router

import (
	"plume/internal/api"
	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/handlers"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/services"
	"plume/internal/store"
	"plume/internal/token"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires stores, handlers and middleware onto r.
func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	codec := token.NewCodec([]byte(cfg.SecretKey))
	users := store.NewUserStore(db.DB, codec, cfg.AdminEmail)
	follows := store.NewFollowStore(db.DB)
	mail := services.NewMailService(cfg)

	// The API group is created before the session middleware is installed,
	// so it never inherits it: API requests are authenticated per request by
	// the gateway, not by cookies.
	apiServer := api.New(db.DB, users, follows, cfg)
	apiServer.Register(r.Group("/api/v1"))

	authHandler := handlers.NewAuthHandler(users, mail)
	postHandler := handlers.NewPostHandler(follows, cfg)
	userHandler := handlers.NewUserHandler(users, follows, cfg)
	moderateHandler := handlers.NewModerateHandler(cfg)

	// Session identity + unconfirmed-account gate for the whole web surface.
	r.Use(middleware.LoadUser(users))
	r.Use(middleware.ConfirmedRequired())

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/post/:id", postHandler.Detail)
	r.GET("/user/:username", userHandler.Profile)
	r.GET("/followers/:username", userHandler.Followers)
	r.GET("/followed-by/:username", userHandler.FollowedBy)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/confirm/:token", authHandler.Confirm)
	r.GET("/unconfirmed", authHandler.Unconfirmed)
	r.GET("/resend_email", authHandler.ResendEmail)

	// Logged-in routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/all", postHandler.ShowAll)
		authorized.GET("/followed", postHandler.ShowFollowed)
		authorized.GET("/edit-profile", userHandler.ShowEditProfile)
		authorized.POST("/edit-profile", userHandler.EditProfile)

		write := authorized.Group("/")
		write.Use(middleware.PermissionRequired(models.PermWritePosts))
		{
			write.GET("/write", postHandler.ShowWrite)
			write.POST("/write", postHandler.Write)
			write.GET("/edit/:id", postHandler.ShowEdit)
			write.POST("/edit/:id", postHandler.Edit)
		}

		comment := authorized.Group("/")
		comment.Use(middleware.PermissionRequired(models.PermComment))
		{
			comment.POST("/post/:id/comment", postHandler.CreateComment)
		}

		follow := authorized.Group("/")
		follow.Use(middleware.PermissionRequired(models.PermFollow))
		{
			follow.GET("/follow/:username", userHandler.Follow)
			follow.GET("/unfollow/:username", userHandler.Unfollow)
		}
	}

	// Moderator routes
	moderate := r.Group("/moderate")
	moderate.Use(middleware.AuthRequired(), middleware.PermissionRequired(models.PermModerateComments))
	{
		moderate.GET("", moderateHandler.List)
		moderate.POST("/enable/:id", moderateHandler.Enable)
		moderate.POST("/disable/:id", moderateHandler.Disable)
	}

	// Administrator routes
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/edit-profile/:id", userHandler.ShowEditProfileAdmin)
		admin.POST("/edit-profile/:id", userHandler.EditProfileAdmin)
	}
}
