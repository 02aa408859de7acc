package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"authsphere/domain"
	"authsphere/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.OTP{}))
	return db
}

// fakeNotifier records sent mail; optionally fails every send.
type fakeNotifier struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeNotifier) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type authFixture struct {
	db       *gorm.DB
	userRepo domain.UserRepository
	otpRepo  domain.OTPRepository
	notifier *fakeNotifier
	auth     domain.AuthUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	return newAuthFixtureCfg(t, AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef"})
}

func newAuthFixtureCfg(t *testing.T, cfg AuthConfig) *authFixture {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	notifier := &fakeNotifier{}
	auth := NewAuthService(userRepo, otpRepo, notifier, cfg)
	return &authFixture{db: db, userRepo: userRepo, otpRepo: otpRepo, notifier: notifier, auth: auth}
}

func (f *authFixture) createUser(t *testing.T, email, username, password string) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{Email: email, Username: username, Password: string(hashed), IsActive: true}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *authFixture) otpCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&domain.OTP{}).Count(&count).Error)
	return count
}

func (f *authFixture) latestCode(t *testing.T, userUUID string) string {
	t.Helper()
	var otp domain.OTP
	require.NoError(t, f.db.Where("user_uuid = ?", userUUID).Order("created_at DESC, id DESC").First(&otp).Error)
	return otp.Code
}

func (f *authFixture) ageOTP(t *testing.T, userUUID string, age time.Duration) {
	t.Helper()
	require.NoError(t, f.db.Model(&domain.OTP{}).
		Where("user_uuid = ?", userUUID).
		Update("created_at", time.Now().Add(-age)).Error)
}

var errSMTPDown = errors.New("smtp connection refused")
