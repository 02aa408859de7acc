package domain

import (
	"context"
	"time"
)

// OTPTTL is how long a reset code stays valid after creation.
const OTPTTL = 10 * time.Minute

type OTP struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserUUID  string    `gorm:"type:uuid;not null;index" json:"user_uuid"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserUUID;references:UUID;constraint:OnDelete:CASCADE" json:"-"`
}

// ExpiredAt reports whether the code is past its validity window at the given
// instant. Only the most recently created unused row counts as active; older
// unused rows are stale regardless of expiry.
func (o *OTP) ExpiredAt(now time.Time) bool {
	return now.After(o.CreatedAt.Add(OTPTTL))
}

func (o *OTP) Expired() bool {
	return o.ExpiredAt(time.Now())
}

// OTPFilter narrows admin listings over reset codes.
type OTPFilter struct {
	Email  string
	Used   *bool
	Limit  int
	Offset int
}

type OTPRepository interface {
	CreateOTP(ctx context.Context, otp *OTP) error
	// LatestUnused returns the most recently created unused OTP for the user,
	// or gorm.ErrRecordNotFound when none exists.
	LatestUnused(ctx context.Context, userUUID string) (*OTP, error)
	// ConsumeForReset atomically re-validates the user's active OTP against
	// the given code and, when it matches, stores the new password hash and
	// marks the OTP used. The row is locked for the duration of the check so
	// two concurrent confirms cannot both spend the same code.
	ConsumeForReset(ctx context.Context, userUUID, code, passwordHash string) error
	// DeleteStale removes rows created before the cutoff and rows already used.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
	ListOTPs(ctx context.Context, filter OTPFilter) ([]OTP, int64, error)
}
