package domain

import "errors"

// Error kinds surfaced by the auth flows. Handlers map these onto the response
// envelope's code field; everything else is translated as an internal error.
var (
	ErrNotFound           = errors.New("no user with this email address exists")
	ErrNoActiveOTP        = errors.New("no active OTP found, please request a new one")
	ErrOTPExpired         = errors.New("OTP has expired, please request a new one")
	ErrInvalidOTPCode     = errors.New("invalid OTP code")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password does not meet the strength policy")
	ErrRateLimited        = errors.New("too many requests")
	ErrNotificationFailed = errors.New("failed to send notification email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailImmutable     = errors.New("email cannot be changed")
	ErrInactiveUser       = errors.New("user account is disabled")
)

// ErrorCode returns the envelope code for a known error kind, or "INTERNAL"
// for anything unexpected.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrNoActiveOTP):
		return "NO_ACTIVE_OTP"
	case errors.Is(err, ErrOTPExpired):
		return "EXPIRED"
	case errors.Is(err, ErrInvalidOTPCode):
		return "INVALID_CODE"
	case errors.Is(err, ErrPasswordMismatch):
		return "PASSWORD_MISMATCH"
	case errors.Is(err, ErrWeakPassword):
		return "WEAK_PASSWORD"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrNotificationFailed):
		return "NOTIFICATION_FAILED"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrEmailImmutable), errors.Is(err, ErrInactiveUser):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL"
	}
}
