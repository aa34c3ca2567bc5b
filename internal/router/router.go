package router

import (
	"time"

	"bbwaitlist/config"
	"bbwaitlist/internal/handler"
	"bbwaitlist/internal/middleware"
	"bbwaitlist/internal/repository"
	"bbwaitlist/internal/service"
	"bbwaitlist/internal/ws"
	"bbwaitlist/pkg/email"
	"bbwaitlist/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Redis limiter when available so limits hold across instances,
	// otherwise per-process.
	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisRateLimiter(rdb, "api", 100, 60*time.Second)
	} else {
		limiter = middleware.NewInMemoryRateLimiter(100, 60*time.Second)
	}
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	adminUserRepo := repository.NewAdminUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	feedHub := ws.NewHub()

	// External clients. Stubs keep local development working without keys.
	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Stripe.BaseURL, cfg.Stripe.SecretKey)
	} else {
		gateway = payment.NewStubGateway()
	}
	var dispatcher email.Dispatcher
	if cfg.Email.APIKey != "" {
		dispatcher = email.NewResendDispatcher(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	} else {
		dispatcher = email.NewStubDispatcher()
	}

	// Services
	emailSvc := service.NewEmailService(dispatcher, emailLogRepo, cfg.Email.SiteURL)
	signupSvc := service.NewSignupService(&cfg.Waitlist, userRepo, referralRepo, gateway, emailSvc)
	paymentSvc := service.NewPaymentService(userRepo, gateway)
	authSvc := service.NewAuthService(&cfg.JWT, adminUserRepo)

	// Handlers
	signupHandler := handler.NewSignupHandler(signupSvc, feedHub)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	referralHandler := handler.NewReferralHandler(userRepo, referralRepo, rdb)
	adminHandler := handler.NewAdminHandler(authSvc, adminRepo, emailLogRepo, referralRepo)
	healthHandler := handler.NewHealthHandler(db, rdb, feedHub)

	adminMw := middleware.AdminRequired(&cfg.JWT)

	r.GET("/health", healthHandler.Check)

	api := r.Group("/api/v1")
	{
		// Signups carry a real dollar commitment behind them; keep the
		// abuse window small.
		signupLimiter := middleware.NewInMemoryRateLimiter(5, time.Minute)
		api.POST("/waitlist/signup", middleware.RateLimit(signupLimiter), signupHandler.Submit)

		api.GET("/referral", referralHandler.Validate)
		api.GET("/referral/stats", referralHandler.Stats)

		payments := api.Group("/payments")
		{
			payments.POST("/setup-intent", paymentHandler.CreateSetupIntent)
			payments.POST("/confirm", paymentHandler.Confirm)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.GET("/stats", adminMw, adminHandler.Stats)
			admin.GET("/users", adminMw, adminHandler.ListUsers)
			admin.GET("/users/:id", adminMw, adminHandler.GetUser)
			admin.PATCH("/users/:id", adminMw, adminHandler.UpdateUser)
			admin.GET("/analytics", adminMw, adminHandler.Analytics)
			admin.GET("/export", adminMw, adminHandler.Export)
			admin.GET("/feed", ws.UpgradeFeedWS(&cfg.JWT, feedHub))
		}
	}

	return r
}
