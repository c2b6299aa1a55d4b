package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/coupon"
	"github.com/kartlane/ecommerce-api/controllers/order"
	"github.com/kartlane/ecommerce-api/controllers/payment"
	"github.com/kartlane/ecommerce-api/middleware"
	"gorm.io/gorm"
)

func CouponRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Cfg.JWTAccessSecret)
	requireAdmin := middleware.RequireAdmin()

	coupons := api.Group("/coupons")
	coupons.Use(requireAuth)
	{
		coupons.POST("/validate", couponControllers.ValidateCoupon(db))

		coupons.POST("", requireAdmin, couponControllers.CreateCoupon(db))
		coupons.GET("", requireAdmin, couponControllers.GetCoupons(db))
		coupons.GET("/:id", requireAdmin, couponControllers.GetCouponByID(db))
		coupons.PATCH("/:id", requireAdmin, couponControllers.UpdateCoupon(db))
		coupons.PATCH("/:id/toggle", requireAdmin, couponControllers.ToggleCoupon(db))
		coupons.DELETE("/:id", requireAdmin, couponControllers.DeleteCoupon(db))
	}
}

func OrderRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Cfg.JWTAccessSecret)
	requireAdmin := middleware.RequireAdmin()

	h := orderControllers.NewHandler(db, deps.Logger, deps.Mailer, deps.Hub)

	orders := api.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("/checkout", h.Checkout)
		orders.GET("", h.GetUserOrders)
		orders.GET("/all", requireAdmin, h.GetAllOrders)
		orders.GET("/ws", requireAdmin, deps.Hub.Serve())
		orders.GET("/:id", h.GetOrderByID)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.PATCH("/:id/status", requireAdmin, h.UpdateOrderStatus)
	}

	cancellations := api.Group("/order-cancellations")
	cancellations.Use(requireAuth)
	{
		cancellations.POST("/:orderId", h.RequestCancellation)
		cancellations.GET("", h.GetUserCancellations)
		cancellations.GET("/all", requireAdmin, h.GetAllCancellations)
		cancellations.GET("/:id", h.GetCancellationByID)
		cancellations.PATCH("/:id/status", requireAdmin, h.UpdateCancellationStatus)
	}

	returns := api.Group("/order-returns")
	returns.Use(requireAuth)
	{
		returns.POST("/:orderId", h.RequestReturn)
		returns.GET("", h.GetUserReturns)
		returns.GET("/all", requireAdmin, h.GetAllReturns)
		returns.GET("/:id", h.GetReturnByID)
		returns.PATCH("/:id/status", requireAdmin, h.UpdateReturnStatus)
	}
}

func PaymentRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	requireAuth := middleware.RequireAuth(deps.Cfg.JWTAccessSecret)
	requireAdmin := middleware.RequireAdmin()

	h := paymentControllers.NewHandler(db, deps.Gateway, deps.Cfg.RazorpayKeySecret,
		deps.Logger, deps.Mailer, deps.Hub)

	payments := api.Group("/payments")
	payments.Use(requireAuth)
	{
		payments.POST("/initiate", h.InitiatePayment)
		payments.POST("/verify", h.VerifyRazorpayPayment)
		payments.GET("/order/:orderId", h.GetPaymentByOrderID)
		payments.GET("", requireAdmin, h.GetAllPayments)
		payments.GET("/:id", h.GetPaymentByID)
		payments.PATCH("/:id/status", requireAdmin, h.UpdatePaymentStatus)
	}
}
