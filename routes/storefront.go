package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/banner"
	"github.com/kartlane/ecommerce-api/controllers/review"
	"github.com/kartlane/ecommerce-api/middleware"
	"gorm.io/gorm"
)

func StorefrontRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Cfg.JWTAccessSecret)
	requireAdmin := middleware.RequireAdmin()

	banners := api.Group("/banners")
	{
		banners.GET("", bannerControllers.GetActiveBanners(db))

		banners.GET("/all", requireAuth, requireAdmin, bannerControllers.GetAllBanners(db))
		banners.POST("", requireAuth, requireAdmin, bannerControllers.CreateBanner(db))
		banners.PATCH("/:id/toggle", requireAuth, requireAdmin, bannerControllers.ToggleBanner(db))
		banners.DELETE("/:id", requireAuth, requireAdmin, bannerControllers.DeleteBanner(db))
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/:productId", reviewControllers.GetProductReviews(db))

		reviews.POST("/:productId", requireAuth, reviewControllers.CreateReview(db))
		reviews.PATCH("/:productId", requireAuth, reviewControllers.UpdateReview(db))
		reviews.DELETE("/:productId", requireAuth, reviewControllers.DeleteReview(db))
	}
}
