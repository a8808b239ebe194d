package service

import (
	"context"
	"encoding/json"
	"fmt"

	"hms-be/internal/domain"
	"hms-be/pkg/logger"
	"hms-be/pkg/redis"
)

// CacheService caches read-heavy event data in Redis and keeps the per-user
// chat rate counters. All methods degrade to a miss on Redis failure.
type CacheService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(client *redis.Client, log *logger.Logger) *CacheService {
	return &CacheService{client: client, log: log}
}

// GetTeams retrieves the cached assignable team roster for an event.
// Returns nil on a miss.
func (s *CacheService) GetTeams(ctx context.Context, eventID string) []domain.Team {
	key := s.client.KeyBuilder.KeyEventTeams(eventID)

	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.log.WithError(err).Debug("Team cache read failed")
		}
		return nil
	}

	var teams []domain.Team
	if err := json.Unmarshal([]byte(raw), &teams); err != nil {
		s.log.WithError(err).Warn("Corrupt team cache entry, dropping")
		_ = s.client.Delete(ctx, key)
		return nil
	}
	return teams
}

// SetTeams stores the assignable team roster for an event
func (s *CacheService) SetTeams(ctx context.Context, eventID string, teams []domain.Team) {
	data, err := json.Marshal(teams)
	if err != nil {
		return
	}
	key := s.client.KeyBuilder.KeyEventTeams(eventID)
	if err := s.client.Set(ctx, key, data, redis.TTLEventTeams); err != nil {
		s.log.WithError(err).Debug("Team cache write failed")
	}
}

// InvalidateTeams drops the cached team roster for an event
func (s *CacheService) InvalidateTeams(ctx context.Context, eventID string) {
	key := s.client.KeyBuilder.KeyEventTeams(eventID)
	if err := s.client.Delete(ctx, key); err != nil {
		s.log.WithError(err).Debug("Team cache invalidation failed")
	}
}

// GetTracks retrieves the cached active track list for an event.
// Returns nil on a miss.
func (s *CacheService) GetTracks(ctx context.Context, eventID string) []domain.Track {
	key := s.client.KeyBuilder.KeyEventTracks(eventID)

	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.log.WithError(err).Debug("Track cache read failed")
		}
		return nil
	}

	var tracks []domain.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		s.log.WithError(err).Warn("Corrupt track cache entry, dropping")
		_ = s.client.Delete(ctx, key)
		return nil
	}
	return tracks
}

// SetTracks stores the active track list for an event
func (s *CacheService) SetTracks(ctx context.Context, eventID string, tracks []domain.Track) {
	data, err := json.Marshal(tracks)
	if err != nil {
		return
	}
	key := s.client.KeyBuilder.KeyEventTracks(eventID)
	if err := s.client.Set(ctx, key, data, redis.TTLEventTracks); err != nil {
		s.log.WithError(err).Debug("Track cache write failed")
	}
}

// GetEventStats retrieves the cached stats snapshot for an event.
// Returns nil on a miss.
func (s *CacheService) GetEventStats(ctx context.Context, eventID string) *domain.EventStats {
	key := s.client.KeyBuilder.KeyEventStats(eventID)

	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.log.WithError(err).Debug("Stats cache read failed")
		}
		return nil
	}

	var stats domain.EventStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

// SetEventStats stores the stats snapshot for an event
func (s *CacheService) SetEventStats(ctx context.Context, stats *domain.EventStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	key := s.client.KeyBuilder.KeyEventStats(stats.EventID)
	if err := s.client.Set(ctx, key, data, redis.TTLEventStats); err != nil {
		s.log.WithError(err).Debug("Stats cache write failed")
	}
}

// AllowChat increments the user's chat counter and reports whether the
// request fits within the rate limit window
func (s *CacheService) AllowChat(ctx context.Context, userID string, limit int) (bool, error) {
	key := s.client.KeyBuilder.KeyChatRate(userID)

	count, err := s.client.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment chat counter: %w", err)
	}

	// Set the window expiry on first use
	if count == 1 {
		if err := s.client.Expire(ctx, key, redis.TTLChatRate); err != nil {
			s.log.WithError(err).Warn("Failed to set chat rate key expiry")
		}
	}

	return count <= int64(limit), nil
}
