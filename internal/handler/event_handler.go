package handler

import (
	"net/http"

	"hms-be/internal/repository"
	"hms-be/internal/service"
	"hms-be/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	events      repository.EventRepository
	tracks      repository.TrackRepository
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	stats       service.StatsService
	cache       *service.CacheService // may be nil when Redis is not configured
	log         *logger.Logger
}

func NewEventHandler(
	events repository.EventRepository,
	tracks repository.TrackRepository,
	teams repository.TeamRepository,
	memberships repository.MembershipRepository,
	stats service.StatsService,
	cache *service.CacheService,
	log *logger.Logger,
) *EventHandler {
	return &EventHandler{
		events:      events,
		tracks:      tracks,
		teams:       teams,
		memberships: memberships,
		stats:       stats,
		cache:       cache,
		log:         log,
	}
}

// GetEvent handles GET /api/events/{eventID}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		h.log.WithError(err).Error("Failed to get event")
		respondError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// ListTracks handles GET /api/events/{eventID}/tracks
func (h *EventHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")

	if h.cache != nil {
		if tracks := h.cache.GetTracks(ctx, eventID); tracks != nil {
			respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
			return
		}
	}

	tracks, err := h.tracks.ListActiveByEvent(ctx, eventID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list tracks")
		respondError(w, http.StatusInternalServerError, "Failed to list tracks")
		return
	}

	if h.cache != nil {
		h.cache.SetTracks(ctx, eventID, tracks)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// ListTeams handles GET /api/events/{eventID}/teams
func (h *EventHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")

	if h.cache != nil {
		if teams := h.cache.GetTeams(ctx, eventID); teams != nil {
			respondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
			return
		}
	}

	teams, err := h.teams.ListByEvent(ctx, eventID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list teams")
		respondError(w, http.StatusInternalServerError, "Failed to list teams")
		return
	}

	if h.cache != nil {
		h.cache.SetTeams(ctx, eventID, teams)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// ListJudges handles GET /api/events/{eventID}/judges
func (h *EventHandler) ListJudges(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	judges, err := h.memberships.ListApprovedJudges(r.Context(), eventID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list judges")
		respondError(w, http.StatusInternalServerError, "Failed to list judges")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"judges": judges})
}

// GetStats handles GET /api/events/{eventID}/stats
func (h *EventHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	stats, err := h.stats.GetStats(r.Context(), eventID)
	if err != nil {
		h.log.WithError(err).Error("Failed to get event stats")
		respondError(w, http.StatusInternalServerError, "Failed to get event stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
