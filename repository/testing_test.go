package repository

import (
	"context"
	"testing"
	"time"

	"authsphere/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.OTP{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:    email,
		Username: username,
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestOTP(t *testing.T, db *gorm.DB, userUUID, code string, createdAt time.Time, used bool) *domain.OTP {
	t.Helper()
	otp := &domain.OTP{UserUUID: userUUID, Code: code, Used: used}
	require.NoError(t, db.Create(otp).Error)
	// autoCreateTime stamps with now; rewind explicitly for age-dependent cases.
	require.NoError(t, db.Model(otp).Update("created_at", createdAt).Error)
	otp.CreatedAt = createdAt
	return otp
}

func testCtx() context.Context { return context.Background() }
