package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"hms-be/internal/domain"
	"hms-be/internal/middleware"
	"hms-be/internal/service"
	"hms-be/pkg/logger"
)

const maxChatMessageLen = 4000

type ChatHandler struct {
	chat      service.ChatService
	cache     *service.CacheService // may be nil when Redis is not configured
	rateLimit int
	log       *logger.Logger
}

func NewChatHandler(chat service.ChatService, cache *service.CacheService, rateLimit int, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:      chat,
		cache:     cache,
		rateLimit: rateLimit,
		log:       log,
	}
}

// Send handles POST /api/events/{eventID}/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := middleware.SessionFromContext(ctx)
	if session == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if len(req.Message) > maxChatMessageLen {
		respondError(w, http.StatusBadRequest, "Message is too long")
		return
	}

	if h.cache != nil {
		allowed, err := h.cache.AllowChat(ctx, session.UserID, h.rateLimit)
		if err != nil {
			h.log.WithError(err).Warn("Chat rate limit check failed, allowing request")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Chat message limit reached, try again later")
			return
		}
	}

	response, err := h.chat.Complete(ctx, &req)
	if err != nil {
		h.log.WithError(err).Error("Chat completion failed")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
