package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"authsphere/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_SSLMODE"),
	)
}

func BootDB() (*gorm.DB, error) {
	address := GetDatabaseURL()

	var gormLogger logger.Interface
	if os.Getenv("APP_ENV") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(address), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.AutoMigrate(&domain.User{}, &domain.OTP{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := seedSuperuser(db); err != nil {
		return nil, err
	}

	log.Info().Msg("connected to database")
	return db, nil
}

// seedSuperuser creates the initial staff account from env, once.
func seedSuperuser(db *gorm.DB) error {
	var count int64
	db.Model(&domain.User{}).Where("is_staff = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	email := strings.ToLower(os.Getenv("SUPERUSER_EMAIL"))
	password := os.Getenv("SUPERUSER_PASSWORD")
	username := os.Getenv("SUPERUSER_USERNAME")
	if email == "" || password == "" {
		log.Warn().Msg("skipping superuser seeding, missing SUPERUSER_EMAIL or SUPERUSER_PASSWORD in env")
		return nil
	}
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := domain.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
		IsActive: true,
		IsStaff:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed superuser: %w", err)
	}
	log.Info().Str("email", email).Msg("seeded superuser")
	return nil
}
