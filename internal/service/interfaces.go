package service

import (
	"context"

	"hms-be/internal/domain"
)

// AuthService defines the interface for session authentication operations
type AuthService interface {
	// ValidateSessionToken validates a session JWT and returns the session
	ValidateSessionToken(ctx context.Context, token string) (*domain.Session, error)
}

// ChatService defines the interface for the AI coaching proxy
type ChatService interface {
	// Complete sends the conversation to the model API and returns its reply
	Complete(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error)
}

// StatsService defines the interface for the background stats sync task
type StatsService interface {
	// Start begins the periodic sync loop
	Start(ctx context.Context) error

	// Stop gracefully shuts the sync loop down
	Stop(ctx context.Context) error

	// GetStats retrieves the latest snapshot for an event, computing one
	// on demand when the cache is cold
	GetStats(ctx context.Context, eventID string) (*domain.EventStats, error)
}

// Services aggregates the container-owned service interfaces
type Services struct {
	Auth AuthService
	Chat ChatService
}
