package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/auth"
	"github.com/kartlane/ecommerce-api/controllers/user"
	"github.com/kartlane/ecommerce-api/middleware"
	"gorm.io/gorm"
)

func AuthRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	h := authControllers.NewHandler(db, deps.Cfg, deps.Mailer, deps.Logger)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/resend-otp", h.ResendOTP)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

func UserRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	users := api.Group("/users")
	users.Use(middleware.RequireAuth(deps.Cfg.JWTAccessSecret))
	{
		users.GET("/profile", userControllers.GetProfile(db))
		users.PATCH("/profile", userControllers.UpdateProfile(db))
		users.GET("/all", middleware.RequireAdmin(), userControllers.GetAllUsers(db))
	}
}
