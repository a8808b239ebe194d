package service

import (
	"context"
	"sync"
	"time"

	"hms-be/internal/domain"
	"hms-be/internal/repository"
	"hms-be/pkg/logger"
)

// statsService periodically recomputes per-event counters into Redis. It is
// an independently owned scheduled task with its own lifecycle, not coupled
// to request handling.
type statsService struct {
	events     repository.EventRepository
	cache      *CacheService
	log        *logger.Logger
	interval   time.Duration
	syncTicker *time.Ticker
	stopSync   chan struct{}
	mu         sync.Mutex
	isRunning  bool
}

// NewStatsService creates a new stats sync service
func NewStatsService(events repository.EventRepository, cache *CacheService, log *logger.Logger, interval time.Duration) StatsService {
	return &statsService{
		events:   events,
		cache:    cache,
		log:      log,
		interval: interval,
	}
}

// Start begins the periodic sync loop. The service can be restarted after a
// Stop; each Start owns a fresh ticker and stop channel.
func (s *statsService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	s.log.WithField("interval", s.interval.String()).Info("Starting stats sync service")

	s.syncTicker = time.NewTicker(s.interval)
	s.stopSync = make(chan struct{})
	go s.syncRoutine(ctx, s.syncTicker, s.stopSync)

	s.isRunning = true
	return nil
}

// Stop gracefully shuts the sync loop down, flushing one final snapshot
func (s *statsService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.log.Info("Stopping stats sync service")

	if s.syncTicker != nil {
		s.syncTicker.Stop()
	}
	close(s.stopSync)

	s.syncAll(ctx)

	s.isRunning = false
	return nil
}

// GetStats retrieves the latest snapshot for an event, falling back to a
// direct computation when the cache is cold
func (s *statsService) GetStats(ctx context.Context, eventID string) (*domain.EventStats, error) {
	if s.cache != nil {
		if stats := s.cache.GetEventStats(ctx, eventID); stats != nil {
			return stats, nil
		}
	}

	stats, err := s.events.GetStats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetEventStats(ctx, stats)
	}
	return stats, nil
}

func (s *statsService) syncRoutine(ctx context.Context, ticker *time.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.syncAll(ctx)
		case <-stop:
			s.log.Debug("Stats sync routine stopped")
			return
		case <-ctx.Done():
			s.log.Debug("Stats sync routine cancelled")
			return
		}
	}
}

func (s *statsService) syncAll(ctx context.Context) {
	ids, err := s.events.ListActiveIDs(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to list events for stats sync")
		return
	}

	for _, id := range ids {
		stats, err := s.events.GetStats(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("event_id", id).Error("Failed to compute event stats")
			continue
		}
		if s.cache != nil {
			s.cache.SetEventStats(ctx, stats)
		}
	}

	s.log.WithField("events", len(ids)).Debug("Stats sync completed")
}
