package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// Event key builders

func (kb *KeyBuilder) KeyEventTeams(eventID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyEventTeams, eventID))
}

func (kb *KeyBuilder) KeyEventTracks(eventID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyEventTracks, eventID))
}

func (kb *KeyBuilder) KeyEventStats(eventID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyEventStats, eventID))
}

// Chat key builders

func (kb *KeyBuilder) KeyChatRate(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyChatRate, userID))
}
