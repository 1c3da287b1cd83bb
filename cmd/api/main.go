package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cinebook/internal/cache"
	"cinebook/internal/config"
	"cinebook/internal/database"
	"cinebook/internal/middleware"
	"cinebook/internal/modules/auth"
	"cinebook/internal/modules/booking"
	"cinebook/internal/modules/checkout"
	"cinebook/internal/modules/payment"
	jwtsvc "cinebook/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	paymentCfg, err := config.LoadPaymentRuntimeConfig()
	if err != nil {
		log.Fatalf("payment config: %v", err)
	}

	authCfg, err := config.LoadAuthRuntimeConfig()
	if err != nil {
		log.Fatalf("auth config: %v", err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redis, err := cache.NewRedis(redisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redis.Close()

	j := jwtsvc.New(authCfg.JWTSecret, authCfg.JWTAccessTTL)

	userRepo := auth.NewUserRepository(db)
	orderRepo := payment.NewOrderRepository(db)
	receiptRepo := booking.NewReceiptRepository(db)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	statusHub := checkout.NewHub()
	defer statusHub.Close()
	checkoutHandler := checkout.NewHandler(statusHub, j, log.Printf)

	gateway := payment.NewRazorpayGateway(
		paymentCfg.GatewayBaseURL,
		paymentCfg.KeyID,
		paymentCfg.KeySecret,
		paymentCfg.GatewayTimeout,
	)
	paymentService := payment.NewService(orderRepo, gateway, paymentCfg, log.Printf)
	webhookService := payment.NewWebhookService(
		paymentCfg.WebhookSecret,
		orderRepo,
		receiptRepo,
		redis,
		paymentCfg.WebhookDedupTTL,
		statusHub,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService, webhookService, log.Printf)

	bookingService := booking.NewService(receiptRepo, orderRepo, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Movie ticket booking API is running")
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)
		checkoutHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			paymentHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
