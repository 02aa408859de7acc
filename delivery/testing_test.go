package delivery

import (
	"context"
	"sync"
	"testing"

	"authsphere/domain"
	"authsphere/middleware"
	"authsphere/repository"
	"authsphere/service"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent int
}

func (f *fakeNotifier) Send(context.Context, string, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	return nil
}

type fixture struct {
	db       *gorm.DB
	app      *gin.Engine
	auth     domain.AuthUseCase
	notifier *fakeNotifier
}

func newFixture(t *testing.T, limiter middleware.RateLimiter) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.OTP{}))

	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	notifier := &fakeNotifier{}
	authService := service.NewAuthService(userRepo, otpRepo, notifier, service.AuthConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
	})
	userService := service.NewUserService(userRepo)
	adminService := service.NewAdminService(userRepo, otpRepo)

	app := gin.New()
	jwtManager := authService.GetAccessTokenManager()
	NewAuthHandler(app, authService, limiter)
	NewUserHandler(app, userService, jwtManager)
	NewAdminHandler(app, adminService, jwtManager)

	return &fixture{db: db, app: app, auth: authService, notifier: notifier}
}

func (f *fixture) createUser(t *testing.T, email, username, password string, staff bool) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{Email: email, Username: username, Password: string(hashed), IsActive: true, IsStaff: staff}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) otpCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&domain.OTP{}).Count(&count).Error)
	return count
}
