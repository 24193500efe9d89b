package scheduler

import (
	"context"
	"log"
	"time"

	"noticehub-backend/internal/notice/usecase"
)

// SweepScheduler runs the unread re-notification sweep on a fixed interval.
// The sweep itself is stateless and at-least-once, so a missed or doubled
// tick is harmless.
type SweepScheduler struct {
	sweeper  *usecase.Sweeper
	interval time.Duration
	lookback time.Duration
	stopChan chan struct{}
}

func NewSweepScheduler(sweeper *usecase.Sweeper, interval, lookback time.Duration) *SweepScheduler {
	return &SweepScheduler{
		sweeper:  sweeper,
		interval: interval,
		lookback: lookback,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SweepScheduler) Start() {
	if s.interval <= 0 {
		log.Println("[SweepScheduler] Interval not set, periodic sweep disabled")
		return
	}

	log.Printf("[SweepScheduler] Starting periodic sweep (interval: %s, lookback: %s)", s.interval, s.lookback)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stopChan:
				log.Println("[SweepScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SweepScheduler) Stop() {
	close(s.stopChan)
}

func (s *SweepScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	result, err := s.sweeper.Sweep(ctx, s.lookback)
	if err != nil {
		log.Printf("[SweepScheduler] Sweep failed: %v", err)
		return
	}
	if result.Reminded > 0 {
		log.Printf("[SweepScheduler] Reminded %d recipients across %d notices", result.Reminded, result.Notices)
	}
}
