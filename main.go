package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kartlane/ecommerce-api/config"
	"github.com/kartlane/ecommerce-api/controllers/order"
	"github.com/kartlane/ecommerce-api/gateway"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/routes"
	"github.com/kartlane/ecommerce-api/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()

	utils.SetDevelopment(cfg.IsDevelopment())

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.OrderCancellation{},
		&models.OrderReturn{},
		&models.RefreshToken{},
		&models.OTPVerification{},
		&models.Review{},
		&models.Banner{},
	); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	limiter := middleware.NewRateLimiter(rdb,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second, cfg.RateLimitMax, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware())
	r.Use(limiter.Middleware())

	r.GET("/metrics", middleware.PrometheusHandler())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	hub := orderControllers.NewHub(logger)

	routes.SetupRoutes(r, db, routes.Deps{
		Cfg:     cfg,
		Logger:  logger,
		Mailer:  utils.NewEmailService(cfg.SendgridAPIKey, cfg.MailFrom),
		Gateway: gateway.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		Hub:     hub,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
