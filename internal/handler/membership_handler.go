package handler

import (
	"encoding/json"
	"net/http"

	"hms-be/internal/domain"
	"hms-be/internal/repository"
	"hms-be/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type MembershipHandler struct {
	memberships repository.MembershipRepository
	log         *logger.Logger
}

func NewMembershipHandler(memberships repository.MembershipRepository, log *logger.Logger) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, log: log}
}

// UpdateStatus handles PATCH /api/events/{eventID}/memberships/{membershipID}
func (h *MembershipHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	membershipID := chi.URLParam(r, "membershipID")

	var req domain.MembershipStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Status {
	case domain.MembershipStatusApproved, domain.MembershipStatusRejected, domain.MembershipStatusPending:
	default:
		respondError(w, http.StatusBadRequest, "Status must be one of PENDING, APPROVED, REJECTED")
		return
	}

	membership, err := h.memberships.UpdateStatus(r.Context(), membershipID, req.Status)
	if err != nil {
		h.log.WithError(err).Error("Failed to update membership status")
		respondError(w, http.StatusInternalServerError, "Failed to update membership status")
		return
	}
	if membership == nil {
		respondError(w, http.StatusNotFound, "Membership not found")
		return
	}

	h.log.WithFields(map[string]interface{}{
		"membership_id": membershipID,
		"status":        req.Status,
	}).Info("Membership status updated")

	respondJSON(w, http.StatusOK, membership)
}
