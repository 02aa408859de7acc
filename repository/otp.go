package repository

import (
	"context"
	"strings"
	"time"

	"authsphere/domain"

	"gorm.io/gorm"
)

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) CreateOTP(ctx context.Context, otp *domain.OTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) LatestUnused(ctx context.Context, userUUID string) (*domain.OTP, error) {
	var otp domain.OTP
	err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND used = ?", userUUID, false).
		Order("created_at DESC, id DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// ConsumeForReset runs the read-check-mark sequence in one transaction. The
// mark is a guarded update on the used flag, so of two concurrent confirms
// presenting the same code exactly one claims the row; the loser sees no
// active OTP.
func (r *otpRepository) ConsumeForReset(ctx context.Context, userUUID, code, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var otp domain.OTP
		err := tx.
			Where("user_uuid = ? AND used = ?", userUUID, false).
			Order("created_at DESC, id DESC").
			First(&otp).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
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

		claim := tx.Model(&domain.OTP{}).
			Where("id = ? AND used = ?", otp.ID, false).
			Update("used", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return domain.ErrNoActiveOTP
		}

		res := tx.Model(&domain.User{}).
			Where("uuid = ?", userUUID).
			Update("password", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *otpRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ? OR used = ?", cutoff, true).
		Delete(&domain.OTP{})
	return res.RowsAffected, res.Error
}

func (r *otpRepository) ListOTPs(ctx context.Context, filter domain.OTPFilter) ([]domain.OTP, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.OTP{})

	if filter.Email != "" {
		q = q.Joins("JOIN users ON users.uuid = otps.user_uuid").
			Where("lower(users.email) = ?", strings.ToLower(filter.Email))
	}
	if filter.Used != nil {
		q = q.Where("otps.used = ?", *filter.Used)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var otps []domain.OTP
	if err := q.Order("otps.created_at DESC").Find(&otps).Error; err != nil {
		return nil, 0, err
	}
	return otps, total, nil
}
