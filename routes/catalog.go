package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/address"
	"github.com/kartlane/ecommerce-api/controllers/cart"
	"github.com/kartlane/ecommerce-api/controllers/product"
	"github.com/kartlane/ecommerce-api/middleware"
	"gorm.io/gorm"
)

func CatalogRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Cfg.JWTAccessSecret)
	requireAdmin := middleware.RequireAdmin()

	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db))

		products.POST("", requireAuth, requireAdmin, productControllers.CreateProduct(db))
		products.PATCH("/:id", requireAuth, requireAdmin, productControllers.UpdateProduct(db))
		products.DELETE("/:id", requireAuth, requireAdmin, productControllers.DeleteProduct(db))
		products.GET("/export-excel", requireAuth, requireAdmin, productControllers.ExportProductsToExcel(db))
		products.POST("/import-excel", requireAuth, requireAdmin, productControllers.ImportProductsFromExcel(db))
	}

	categories := api.Group("/category")
	{
		categories.GET("", productControllers.GetCategories(db))
		categories.GET("/:id", productControllers.GetCategoryByID(db))

		categories.POST("", requireAuth, requireAdmin, productControllers.CreateCategory(db))
		categories.PATCH("/:id", requireAuth, requireAdmin, productControllers.UpdateCategory(db))
		categories.DELETE("/:id", requireAuth, requireAdmin, productControllers.DeleteCategory(db))
	}

	addresses := api.Group("/address")
	addresses.Use(requireAuth)
	{
		addresses.POST("", addressControllers.CreateAddress(db))
		addresses.GET("", addressControllers.GetAddresses(db))
		addresses.PATCH("/:id", addressControllers.UpdateAddress(db))
		addresses.DELETE("/:id", addressControllers.DeleteAddress(db))
	}
}

func CartRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	cart := api.Group("/cart")
	cart.Use(middleware.RequireAuth(deps.Cfg.JWTAccessSecret))
	{
		cart.POST("", cartControllers.UpsertCartItem(db))
		cart.GET("", cartControllers.GetCart(db))
		cart.DELETE("/:productId", cartControllers.RemoveCartItem(db))
		cart.DELETE("", cartControllers.ClearCart(db))
	}
}
