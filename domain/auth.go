package domain

import (
	"context"

	"authsphere/utils"
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase interface {
	GetAccessTokenManager() *utils.JWTManager
	Register(ctx context.Context, email, username, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword, confirmPassword string) error
}

type UserUseCase interface {
	Me(ctx context.Context, userUUID string) (*User, error)
	UpdateProfile(ctx context.Context, userUUID string, changes ProfileChanges) (*User, error)
}

// ProfileChanges carries the mutable identity fields for /me updates. Email is
// deliberately absent: it is an immutable identity key after creation.
type ProfileChanges struct {
	Username  *string
	FirstName *string
	LastName  *string
}

type AdminUseCase interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error)
	GetUser(ctx context.Context, uuid string) (*User, error)
	ListOTPs(ctx context.Context, filter OTPFilter) ([]OTP, int64, error)
}

// Notifier delivers rendered mail. Implementations must not be called while a
// database transaction is held open.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
