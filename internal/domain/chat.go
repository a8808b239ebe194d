package domain

import (
	"time"
)

// ChatMessage is a single turn in a coaching conversation
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the POST body for the coaching endpoint
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse is the reply returned to the caller
type ChatResponse struct {
	Reply     string    `json:"reply"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}
