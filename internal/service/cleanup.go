package service

import (
	"context"
	"sync"
	"time"

	"star-admin-api/internal/repository"

	"go.uber.org/zap"
)

// DefaultOTPCleanupInterval is how often expired reset codes are cleared.
const DefaultOTPCleanupInterval = 10 * time.Minute

// OTPCleanupScheduler periodically clears expired password reset codes.
type OTPCleanupScheduler struct {
	admins   repository.AdminRepository
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewOTPCleanupScheduler creates a scheduler. A zero interval uses the default.
func NewOTPCleanupScheduler(admins repository.AdminRepository, interval time.Duration, logger *zap.Logger) *OTPCleanupScheduler {
	if interval <= 0 {
		interval = DefaultOTPCleanupInterval
	}

	return &OTPCleanupScheduler{
		admins:   admins,
		interval: interval,
		logger:   logger.With(zap.String("component", "otp_cleanup")),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cleanup loop. Calling it twice is a no-op.
func (s *OTPCleanupScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))

	go s.run()
}

func (s *OTPCleanupScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			s.runCleanup()
		case <-s.stopCh:
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

func (s *OTPCleanupScheduler) runCleanup() {
	cleared, err := s.RunNow()
	if err != nil {
		s.logger.Error("cleanup failed", zap.Error(err))
		return
	}
	if cleared > 0 {
		s.logger.Info("cleared expired otps", zap.Int64("count", cleared))
	}
}

// Stop stops the cleanup loop.
func (s *OTPCleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow clears expired codes immediately.
func (s *OTPCleanupScheduler) RunNow() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return s.admins.ClearExpiredOTPs(ctx, s.now())
}
