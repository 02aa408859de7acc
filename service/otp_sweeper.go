package service

import (
	"context"
	"time"

	"authsphere/domain"

	"github.com/rs/zerolog/log"
)

// OTPSweeper periodically deletes reset codes that can no longer be redeemed:
// rows past their validity window and rows already used. It runs outside the
// request path and is safe to run concurrently with the reset flow.
type OTPSweeper struct {
	repo     domain.OTPRepository
	interval time.Duration
}

func NewOTPSweeper(repo domain.OTPRepository, interval time.Duration) *OTPSweeper {
	if interval <= 0 {
		interval = domain.OTPTTL
	}
	return &OTPSweeper{repo: repo, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *OTPSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single cleanup pass. Idempotent.
func (s *OTPSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-domain.OTPTTL)
	deleted, err := s.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("otp sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("swept stale OTPs")
	}
}
