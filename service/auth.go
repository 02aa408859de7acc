package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"authsphere/domain"
	"authsphere/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthConfig struct {
	AppName    string
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ResetPINMode switches the reset-confirm password rule from the generic
	// strength policy to the exactly-8-decimal-digits PIN rule. The two rules
	// contradict each other, so exactly one applies to a deployment.
	ResetPINMode bool
}

type authService struct {
	userRepo     domain.UserRepository
	otpRepo      domain.OTPRepository
	notifier     domain.Notifier
	accessToken  *utils.JWTManager
	refreshToken *utils.JWTManager
	appName      string
	policy       utils.PasswordPolicy
	resetPolicy  utils.PasswordPolicy
}

func NewAuthService(userRepo domain.UserRepository, otpRepo domain.OTPRepository, notifier domain.Notifier, cfg AuthConfig) domain.AuthUseCase {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.AppName == "" {
		cfg.AppName = "Authsphere"
	}
	policy := utils.DefaultPasswordPolicy()
	resetPolicy := policy
	resetPolicy.PINMode = cfg.ResetPINMode
	return &authService{
		userRepo:     userRepo,
		otpRepo:      otpRepo,
		notifier:     notifier,
		accessToken:  utils.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL),
		refreshToken: utils.NewJWTManager(cfg.JWTSecret, cfg.RefreshTTL),
		appName:      cfg.AppName,
		policy:       policy,
		resetPolicy:  resetPolicy,
	}
}

func (s *authService) GetAccessTokenManager() *utils.JWTManager {
	return s.accessToken
}

func (s *authService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	if err := s.policy.Validate(password); err != nil {
		return nil, domain.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    strings.ToLower(email),
		Username: username,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// Welcome mail is fire-and-forget: delivery failure must never fail
	// registration.
	go func(u domain.User) {
		body, err := utils.RenderWelcomeEmail(utils.EmailContext{
			AppName:  s.appName,
			Username: u.Username,
			Email:    u.Email,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to render welcome email")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, u.Email, "Welcome to "+s.appName+"!", body); err != nil {
			log.Error().Err(err).Str("email", u.Email).Msg("failed to send welcome email")
		}
	}(*user)

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	userUUID, _, err := s.refreshToken.VerifyToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Staleness check: the account may have been deleted or disabled since
	// the token was issued.
	user, err := s.userRepo.GetUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (*domain.AuthTokens, error) {
	access, err := s.accessToken.GenerateToken(user.UUID, user.IsStaff)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshToken.GenerateToken(user.UUID, user.IsStaff)
	if err != nil {
		return nil, err
	}
	return &domain.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// RequestPasswordReset issues a fresh OTP and mails it. An unknown email
// returns nil without creating anything, so the caller's response is
// indistinguishable from the registered case.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().Msg("password reset requested for unregistered email")
			return nil
		}
		return err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	otp := &domain.OTP{UserUUID: user.UUID, Code: code}
	if err := s.otpRepo.CreateOTP(ctx, otp); err != nil {
		return err
	}

	body, err := utils.RenderResetEmail(utils.EmailContext{
		AppName:  s.appName,
		Username: user.Username,
		Code:     code,
	})
	if err != nil {
		return err
	}

	// The OTP row is already committed; a delivery failure is reported to the
	// caller but does not roll it back.
	if err := s.notifier.Send(ctx, user.Email, "Password Reset OTP", body); err != nil {
		return errors.Join(domain.ErrNotificationFailed, err)
	}
	return nil
}

// VerifyResetOTP proves possession of the emailed code without consuming it.
// Only ConfirmPasswordReset marks the OTP used, so a verify-then-confirm
// sequence works with a single code.
func (s *authService) VerifyResetOTP(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	otp, err := s.otpRepo.LatestUnused(ctx, user.UUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoActiveOTP
		}
		return err
	}

	if otp.Expired() {
		return domain.ErrOTPExpired
	}
	if otp.Code != code {
		return domain.ErrInvalidOTPCode
	}
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword, confirmPassword string) error {
	// Mismatch is rejected before any lookup so nothing is consumed.
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	if err := s.resetPolicy.Validate(newPassword); err != nil {
		return domain.ErrWeakPassword
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.otpRepo.ConsumeForReset(ctx, user.UUID, code, string(hashed))
}
