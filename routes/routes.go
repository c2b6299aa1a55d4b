package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/config"
	"github.com/kartlane/ecommerce-api/controllers/order"
	"github.com/kartlane/ecommerce-api/gateway"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries the shared services the route groups need.
type Deps struct {
	Cfg     *config.Config
	Logger  *zap.Logger
	Mailer  *utils.EmailService
	Gateway gateway.Client
	Hub     *orderControllers.Hub
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	api := r.Group("/api")

	AuthRoutes(api, db, deps)
	UserRoutes(api, db, deps)
	CatalogRoutes(api, db, deps)
	CartRoutes(api, db, deps)
	CouponRoutes(api, db, deps)
	OrderRoutes(api, db, deps)
	PaymentRoutes(api, db, deps)
	StorefrontRoutes(api, db, deps)
}
