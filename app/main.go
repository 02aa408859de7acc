package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"authsphere/config"
	"authsphere/delivery"
	"authsphere/middleware"
	"authsphere/repository"
	"authsphere/service"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	utils.InitLogger(os.Getenv("APP_ENV"))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	db, err := config.BootDB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET must be at least 32 characters. Generate one with: openssl rand -base64 32")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR not found in env")
	}
	redisClient := config.InitRedisDB(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)

	mailer := utils.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
		os.Getenv("SMTP_FROM"),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, otpRepo, mailer, service.AuthConfig{
		AppName:      os.Getenv("APP_NAME"),
		JWTSecret:    jwtSecret,
		ResetPINMode: os.Getenv("RESET_PASSWORD_PIN_MODE") == "true",
	})
	userService := service.NewUserService(userRepo)
	adminService := service.NewAdminService(userRepo, otpRepo)

	limiter := middleware.NewRedisRateLimiter(redisClient)

	app := gin.New()
	config.InitMiddleware(app)

	jwtManager := authService.GetAccessTokenManager()
	delivery.NewAuthHandler(app, authService, limiter)
	delivery.NewUserHandler(app, userService, jwtManager)
	delivery.NewAdminHandler(app, adminService, jwtManager)

	// Background sweep of expired and spent OTPs; independent of request
	// handling.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweeper := service.NewOTPSweeper(otpRepo, getEnvDuration("OTP_SWEEP_INTERVAL", 10*time.Minute))
	go sweeper.Run(sweepCtx)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:           ":" + port,
		Handler:        app,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
