package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"hms-be/internal/domain"
	"hms-be/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// Distributor is the distribution engine surface consumed over HTTP
type Distributor interface {
	Preview(ctx context.Context, eventID string, phaseID int) (*domain.DistributionResult, error)
	Commit(ctx context.Context, eventID string, phaseID int) (*domain.DistributionResult, error)
	Clear(ctx context.Context, eventID string, phaseID int) (int64, error)
}

// AssignmentLister lists persisted assignments
type AssignmentLister interface {
	ListForPhase(ctx context.Context, eventID string, phaseID int, judgeMembershipID string) ([]domain.Assignment, error)
}

type DistributionHandler struct {
	distributor Distributor
	assignments AssignmentLister
	log         *logger.Logger
}

func NewDistributionHandler(distributor Distributor, assignments AssignmentLister, log *logger.Logger) *DistributionHandler {
	return &DistributionHandler{
		distributor: distributor,
		assignments: assignments,
		log:         log,
	}
}

// Preview handles GET /api/events/{eventID}/distribution/preview?phaseId=N
func (h *DistributionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	phaseID, ok := h.phaseFromQuery(w, r)
	if !ok {
		return
	}

	result, err := h.distributor.Preview(r.Context(), eventID, phaseID)
	if err != nil {
		h.log.WithError(err).Error("Distribution preview failed")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Commit handles POST /api/events/{eventID}/distribution
func (h *DistributionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req domain.DistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PhaseID <= 0 {
		respondError(w, http.StatusBadRequest, "Phase ID is required")
		return
	}

	result, err := h.distributor.Commit(r.Context(), eventID, req.PhaseID)
	if err != nil {
		h.log.WithError(err).Error("Distribution commit failed")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Clear handles DELETE /api/events/{eventID}/distribution?phaseId=N
func (h *DistributionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	phaseID, ok := h.phaseFromQuery(w, r)
	if !ok {
		return
	}

	deleted, err := h.distributor.Clear(r.Context(), eventID, phaseID)
	if err != nil {
		h.log.WithError(err).Error("Assignment clearing failed")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// ListAssignments handles GET /api/events/{eventID}/assignments?phaseId=N&judgeId=...
func (h *DistributionHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	phaseID, ok := h.phaseFromQuery(w, r)
	if !ok {
		return
	}

	assignments, err := h.assignments.ListForPhase(r.Context(), eventID, phaseID, r.URL.Query().Get("judgeId"))
	if err != nil {
		h.log.WithError(err).Error("Failed to list assignments")
		respondError(w, http.StatusInternalServerError, "Failed to list assignments")
		return
	}

	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

func (h *DistributionHandler) phaseFromQuery(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("phaseId")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Phase ID is required")
		return 0, false
	}

	phaseID, err := strconv.Atoi(raw)
	if err != nil || phaseID <= 0 {
		respondError(w, http.StatusBadRequest, "Phase ID must be a positive integer")
		return 0, false
	}

	return phaseID, true
}
