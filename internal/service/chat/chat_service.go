package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hms-be/internal/domain"
	"hms-be/internal/service"
	"hms-be/pkg/errors"
	"hms-be/pkg/logger"
)

const systemPrompt = "You are a hackathon coach. Give teams concise, practical advice on scoping, building and presenting their project."

// Service proxies coaching conversations to an external chat completion API.
// The endpoint is treated as opaque; its auth contract is a bearer API key.
type Service struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new chat service
func NewService(apiURL, apiKey, model string, logger *logger.Logger) service.ChatService {
	return &Service{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation to the model API and returns its reply
func (s *Service) Complete(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if s.apiURL == "" {
		return nil, errors.NewExternalError("Chat API not configured", nil)
	}

	messages := make([]domain.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, domain.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, domain.ChatMessage{Role: "user", Content: req.Message})

	body, err := json.Marshal(completionRequest{Model: s.model, Messages: messages})
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError("Failed to build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.WithError(err).Error("Chat API request failed")
		return nil, errors.NewExternalError("Chat service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(payload),
		}).Error("Chat API returned an error")
		return nil, errors.NewExternalError(fmt.Sprintf("Chat service returned status %d", resp.StatusCode), nil)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, errors.NewExternalError("Failed to decode chat response", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.NewExternalError("Chat service returned no choices", nil)
	}

	return &domain.ChatResponse{
		Reply:     completion.Choices[0].Message.Content,
		Model:     s.model,
		Timestamp: time.Now().UTC(),
	}, nil
}
